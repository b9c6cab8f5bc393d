/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"github.com/ssargent/shadowrec/cmd/recctl/cmd"
)

func main() {
	cmd.Execute()
}
