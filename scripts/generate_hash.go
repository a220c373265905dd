//go:build ignore

// generate_hash.go — utility for generating an Argon2id password hash.
// Run: go run scripts/generate_hash.go your_password
//
// Paste the result into .env as OPERATOR_PASSWORD_HASH.
package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"

	"golang.org/x/crypto/argon2"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run scripts/generate_hash.go <password>")
		os.Exit(1)
	}

	password := os.Args[1]

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		fmt.Printf("Failed to generate salt: %v\n", err)
		os.Exit(1)
	}

	var (
		memory      uint32 = 65536 // 64 MB
		iterations  uint32 = 3
		parallelism uint8  = 2
		keyLength   uint32 = 32
	)

	hash := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, keyLength)

	encodedSalt := base64.RawStdEncoding.EncodeToString(salt)
	encodedHash := base64.RawStdEncoding.EncodeToString(hash)

	result := fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memory, iterations, parallelism, encodedSalt, encodedHash)

	fmt.Println("Password hash (paste into .env as OPERATOR_PASSWORD_HASH):")
	fmt.Println(result)
}
