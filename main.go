package main

import "github.com/nuvai/nuvai/cmd/nuvai"

func main() { nuvai.Execute() }
