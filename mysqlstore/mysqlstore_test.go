package mysqlstore_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/bluescreen10/reqx/mysqlstore"
)

func TestSetGet(t *testing.T) {
	ctx := context.Background()
	key := "abc123"
	expectedData := []byte("hello world")

	db, err := getDB(t)
	if err != nil {
		t.Fatal(err)
	}

	s, err := mysqlstore.New(db)
	if err != nil {
		t.Fatal(err)
	}
	err = s.Set(ctx, key, expectedData, time.Now().Add(1*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	data, found, err := s.Get(ctx, key)

	if err != nil {
		t.Fatal(err)
	}

	if string(data) != string(expectedData) {
		t.Fatalf("expected '%s' got '%s'", expectedData, data)
	}

	if !found {
		t.Fatalf("expected 'true' got '%v'", found)
	}
}

func TestEmptyGet(t *testing.T) {
	ctx := context.Background()
	key := "abc123"

	db, err := getDB(t)
	if err != nil {
		t.Fatal(err)
	}

	s, err := mysqlstore.New(db)
	if err != nil {
		t.Fatal(err)
	}
	_, found, err := s.Get(ctx, key)

	if err != nil {
		t.Fatal(err)
	}

	if found {
		t.Fatalf("expected 'false' got '%v'", found)
	}
}

func TestGetExpired(t *testing.T) {
	ctx := context.Background()
	key := "abc123"
	expectedData := []byte("hello world")

	db, err := getDB(t)
	if err != nil {
		t.Fatal(err)
	}

	s, err := mysqlstore.New(db)
	if err != nil {
		t.Fatal(err)
	}

	err = s.Set(ctx, key, expectedData, time.Now().Add(1*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}

	time.Sleep(50 * time.Millisecond)
	_, found, err := s.Get(ctx, key)

	if err != nil {
		t.Fatal(err)
	}

	if found {
		t.Fatalf("expected 'false' got '%v'", found)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	key := "abc123"
	expectedData := []byte("hello world")

	db, err := getDB(t)
	if err != nil {
		t.Fatal(err)
	}

	s, err := mysqlstore.New(db)
	if err != nil {
		t.Fatal(err)
	}
	s.Set(ctx, key, expectedData, time.Now().Add(1*time.Hour))
	if err := s.Delete(ctx, key); err != nil {
		t.Fatal(err)
	}

	_, found, err := s.Get(ctx, key)
	if err != nil {
		t.Fatal(err)
	}

	if found {
		t.Fatalf("expected 'false' got '%v'", found)
	}
}

func TestPeriodicCleanup(t *testing.T) {
	ctx := context.Background()
	key1 := "abc123"
	key2 := "abc1234"
	key3 := "abc12345"
	expectedData := []byte("hello world")

	db, err := getDB(t)
	if err != nil {
		t.Fatal(err)
	}

	s, err := mysqlstore.New(db)
	if err != nil {
		t.Fatal(err)
	}
	s.Set(ctx, key1, expectedData, time.Now().Add(1*time.Hour))
	s.Set(ctx, key2, expectedData, time.Now().Add(10*time.Millisecond))
	s.Set(ctx, key3, expectedData, time.Time{})

	stop := make(chan (struct{}))
	go s.PeriodicCleanUp(20*time.Millisecond, stop)
	time.Sleep(50 * time.Millisecond)
	stop <- struct{}{}
	stmt := "SELECT COUNT(*) FROM storage_entries"
	row := db.QueryRow(stmt)

	var got int
	err = row.Scan(&got)
	if err != nil {
		t.Fatal(err)
	}

	if got != 2 {
		t.Fatalf("expected 2 items but got '%d'", got)
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()

	db, err := getDB(t)
	if err != nil {
		t.Fatal(err)
	}

	s, err := mysqlstore.New(db)
	if err != nil {
		t.Fatal(err)
	}
	s.Set(ctx, "ACCESS-TOKEN", []byte("token"), time.Time{})
	s.Set(ctx, "cart", []byte("[]"), time.Now().Add(time.Hour))

	if err := s.Clear(ctx); err != nil {
		t.Fatal(err)
	}

	var got int
	if err := db.QueryRow("SELECT COUNT(*) FROM storage_entries").Scan(&got); err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Fatalf("expected 0 items but got '%d'", got)
	}
}

func getDB(t *testing.T) (*sql.DB, error) {
	ctx := context.Background()
	server, err := testcontainers.Run(
		ctx, "mariadb:latest",
		testcontainers.WithEnv(map[string]string{
			"MARIADB_ROOT_PASSWORD": "rootpass",
			"MARIADB_DATABASE":      "testdb",
			"MARIADB_USER":          "testuser",
			"MARIADB_PASSWORD":      "testpass",
		}),
		testcontainers.WithExposedPorts("3306/tcp"),
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort("3306/tcp"),
			wait.ForLog("ready for connections"),
		),
	)
	if err != nil {
		return nil, err
	}
	testcontainers.CleanupContainer(t, server)

	host, err := server.Host(ctx)
	if err != nil {
		return nil, err
	}
	port, err := server.MappedPort(ctx, "3306")
	if err != nil {
		return nil, err
	}

	// Build DSN
	dsn := fmt.Sprintf("testuser:testpass@tcp(%s:%s)/testdb?parseTime=true", host, port.Port())

	// Open DB connection
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	return db, nil
}
