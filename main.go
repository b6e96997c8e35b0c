package main

import "github.com/frahmantamala/payraise-portal/cmd"

func main() {
	cmd.Execute()
}
