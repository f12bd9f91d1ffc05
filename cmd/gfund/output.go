package main

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
)

var (
	okOut   = color.New(color.FgGreen)
	warnOut = color.New(color.FgYellow)
	keyOut  = color.New(color.FgCyan)
)

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func printField(name string, value interface{}) {
	keyOut.Printf("%-12s", name)
	fmt.Println(value)
}
