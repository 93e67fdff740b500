package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/narusushi/lunch-backend/pkg/config"
	"github.com/narusushi/lunch-backend/pkg/security"
)

// admin-hash reads a password from stdin and prints the argon2id hash to put
// in SCHOOLLUNCH_ADMIN_PASSWORD_HASH. Argon parameters come from the same
// SCHOOLLUNCH_ARGON_* variables the api uses.
func main() {
	_ = godotenv.Load()

	var params config.PasswordConfig
	if err := envconfig.Process(config.EnvPrefix, &params); err != nil {
		fail("parsing argon config: %v", err)
	}

	encoded, err := hashFromReader(os.Stdin, params)
	if err != nil {
		fail("hash password: %v", err)
	}
	fmt.Println(encoded)
}

func hashFromReader(r io.Reader, params config.PasswordConfig) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	return security.HashPassword(password, params)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
