package reqx

import "strings"

// UniqueSlash collapses every run of '/' in u into a single '/', except
// the "//" that follows a scheme separator such as "https:". Applying it
// to its own output returns the same string.
//
//	UniqueSlash("https://yapi.pro/mock//3169///homeApi")
//	// https://yapi.pro/mock/3169/homeApi
func UniqueSlash(u string) string {
	var b strings.Builder
	b.Grow(len(u))

	for i := 0; i < len(u); {
		if u[i] != '/' {
			b.WriteByte(u[i])
			i++
			continue
		}

		j := i
		for j < len(u) && u[j] == '/' {
			j++
		}

		if i > 0 && u[i-1] == ':' && j-i >= 2 {
			b.WriteString("//")
		} else {
			b.WriteByte('/')
		}
		i = j
	}

	return b.String()
}
