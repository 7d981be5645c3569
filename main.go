package main

import (
	cmd "github.com/cozy-creator/cropscan/cmd/cropscan"
)

func main() {
	cmd.Execute()
}
