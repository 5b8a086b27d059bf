// Binary maketoken creates a JSON-encoded API request body, which includes a JWT that authorizes one action on one camera.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mtraver/rpi-thermal-cam/auth"
	"github.com/mtraver/rpi-thermal-cam/panel"
)

var ttl time.Duration

func fatalf(format string, a ...interface{}) {
	fmt.Printf(format+"\n", a...)
	os.Exit(1)
}

func init() {
	flag.DurationVar(&ttl, "ttl", 3650*24*time.Hour, "how long the token is valid for")

	flag.Usage = func() {
		message := `usage: maketoken [-ttl duration] device action secret_path

maketoken creates a JSON-encoded API request body, which includes
a JWT that authorizes that specific action on that specific camera.

Positional arguments (required):
  device
      camera device name, as set in the server config
  action
      action path (e.g. /save) or control panel element (e.g. save)
  secret_path
      path to file containing the secret with which to sign the JWT
`
		fmt.Fprint(flag.CommandLine.Output(), message)
	}
}

// actionPath accepts either a path or a panel element id.
func actionPath(s string) string {
	if b, err := panel.Lookup(s); err == nil {
		return b.Path
	}
	return s
}

func main() {
	flag.Parse()

	if flag.NArg() != 3 {
		flag.Usage()
		os.Exit(1)
	}

	device := flag.Arg(0)
	action := actionPath(flag.Arg(1))

	secret, err := os.ReadFile(flag.Arg(2))
	if err != nil {
		fatalf("Failed to read secret: %v", err)
	}

	token, err := auth.NewToken(bytes.TrimSpace(secret), device, action, ttl)
	if err != nil {
		fatalf("Failed to make JWT: %v", err)
	}

	b, err := json.Marshal(struct {
		Token string `json:"token"`
	}{token})
	if err != nil {
		fatalf("Failed to marshal request to JSON: %v", err)
	}
	fmt.Println(string(b))
}
