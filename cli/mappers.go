package main

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/alecthomas/kong"
)

type intMapper struct {
	base int
}

func (h intMapper) Decode(ctx *kong.DecodeContext, target reflect.Value) error {
	var value string
	if err := ctx.Scan.PopValueInto("int", &value); err != nil {
		return err
	}

	i, err := strconv.ParseInt(value, h.base, 64)
	if err != nil {
		if h.base == 16 {
			return fmt.Errorf("--%s: %q is not a valid hex value", ctx.Value.Name, value)
		}
		return fmt.Errorf("--%s: %q is not a valid integer", ctx.Value.Name, value)
	}

	target.SetInt(i)
	return nil
}
