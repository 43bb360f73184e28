// This is free and unencumbered software released into the public domain.
// See the UNLICENSE file for details.

// Package main - hexafid encrypts and decrypts text with the Hexafid block
// cipher, a fractionating transposition cipher over the Base64 symbol set.
package main

import "github.com/bgallie/hexafid/cmd"

func main() {
	cmd.Execute()
}
