// cmd/loan-predictor/main.go
package main

import "loan-predictor/internal/cli"

func main() {
	cli.Main()
}
