// Command minilang parses and evaluates minilang expressions and programs.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
