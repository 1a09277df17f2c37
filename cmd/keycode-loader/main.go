// keycode-loader seeds the KeyCodes database from a JSON file. Codes may be
// stored as plaintext or bcrypt-hashed with -hash.
package main

import (
	"database/sql"
	"encoding/json"
	"flag"
	"log"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"
)

type seedFile struct {
	KeyCodes []seedEntry `json:"keyCodes"`
}

type seedEntry struct {
	KeyCode     string `json:"keyCode"`
	IsMasterKey bool   `json:"isMasterKey"`
}

func main() {
	seedPath := flag.String("seed-file", "./configs/keycodes.json", "Path to key code seed JSON file")
	dbPath := flag.String("db-path", "./data/keycodes.db", "Path to key code database")
	hash := flag.Bool("hash", false, "Store codes bcrypt-hashed instead of plaintext")
	flag.Parse()

	log.Printf("seed file: %s", *seedPath)
	log.Printf("database: %s", *dbPath)

	raw, err := os.ReadFile(*seedPath)
	if err != nil {
		log.Fatalf("failed to read seed file: %v", err)
	}

	var seed seedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		log.Fatalf("failed to parse seed file: %v", err)
	}
	if len(seed.KeyCodes) == 0 {
		log.Fatal("seed file contains no key codes")
	}

	db, err := sql.Open("sqlite3", *dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	const schema = `CREATE TABLE IF NOT EXISTS KeyCodes (
		KeyCode TEXT PRIMARY KEY,
		IsMasterKey BOOLEAN NOT NULL DEFAULT 0
	)`
	if _, err := db.Exec(schema); err != nil {
		log.Fatalf("failed to create KeyCodes table: %v", err)
	}

	inserted := 0
	for _, entry := range seed.KeyCodes {
		if entry.KeyCode == "" {
			log.Fatal("seed file contains an empty key code")
		}

		stored := entry.KeyCode
		if *hash {
			hashed, err := bcrypt.GenerateFromPassword([]byte(entry.KeyCode), bcrypt.DefaultCost)
			if err != nil {
				log.Fatalf("failed to hash key code: %v", err)
			}
			stored = string(hashed)
		}

		_, err := db.Exec(
			`INSERT INTO KeyCodes (KeyCode, IsMasterKey) VALUES (?, ?)
			 ON CONFLICT(KeyCode) DO UPDATE SET IsMasterKey = excluded.IsMasterKey`,
			stored, entry.IsMasterKey)
		if err != nil {
			log.Fatalf("failed to insert key code: %v", err)
		}
		inserted++
	}

	log.Printf("loaded %d key codes", inserted)
}
