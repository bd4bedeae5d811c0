package main

import (
	"github.com/zostay/go-mime/test/roundtrip/cmd"
)

func main() {
	cmd.Execute()
}
