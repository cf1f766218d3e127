package mockapi

import "github.com/bluescreen10/reqx/api/home"

// HomeFixture returns the home feed served on homeApi.
func HomeFixture() home.HomeResult {
	return home.HomeResult{
		Notice:      map[string]any{},
		HomeAd:      home.HomeAd{ImageURL: "https://img.example.com/ad/home.png"},
		SpecialZone: map[string]any{},
		List: home.HomeList{
			Swiper: home.SwiperResult{
				Type: 1,
				IconList: []home.SwiperItem{
					{
						BackgroundImage: "https://img.example.com/swiper/1-bg.png",
						CID:             1,
						IconURL:         "https://img.example.com/swiper/1.png",
						Link:            "/pages/activity/1",
						PublicID:        "p-1",
						PublicName:      "Weekly deals",
					},
					{
						BackgroundImage: "https://img.example.com/swiper/2-bg.png",
						CID:             2,
						IconURL:         "https://img.example.com/swiper/2.png",
						IsPopLogin:      1,
						Link:            "/pages/vip/index",
						PublicID:        "p-2",
						PublicName:      "Members only",
					},
				},
			},
			AdText: home.AdTextResult{
				CID:        3,
				Height:     120,
				Width:      750,
				ImageURL:   "https://img.example.com/ad/text.png",
				Link:       "/pages/coupon/index",
				PublicID:   "p-3",
				PublicName: "Free delivery over $30",
				Type:       2,
			},
			Category: home.CategoryResult{
				BackgroundImage: "https://img.example.com/category/bg.png",
				Type:            3,
				IconList: []home.CategoryItem{
					{IconURL: "https://img.example.com/category/fruit.png", Name: "Fruit"},
					{IconURL: "https://img.example.com/category/veg.png", Name: "Vegetables"},
					{IconURL: "https://img.example.com/category/meat.png", Name: "Meat"},
					{IconURL: "https://img.example.com/category/dairy.png", Name: "Dairy"},
				},
			},
		},
	}
}
