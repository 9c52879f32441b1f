package main

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

type ListChipsCmd struct {
}

func (l *ListChipsCmd) Run(c *Context) error {
	names := gpiocdev.Chips()
	if len(names) == 0 {
		fmt.Println("No GPIO character devices found.")
		return nil
	}

	for _, name := range names {
		chip, err := gpiocdev.NewChip(name)
		if err != nil {
			return err
		}

		fmt.Printf("%s [%s] (%d lines)\n", chip.Name, chip.Label, chip.Lines())
		chip.Close()
	}

	return nil
}
