package main

import (
	"fmt"
	"io"

	"github.com/SaiNageswarS/go-ioc-boot/ioc"
)

// CheckGraph resolves every registered binding of the demo graph (plus the
// root service) and prints one line per slot. withCycle adds a misconfigured
// pair so the failure report can be seen.
func CheckGraph(out io.Writer, withCycle bool) error {
	c := ioc.New()
	if err := registerDemoGraph(c); err != nil {
		return err
	}
	if withCycle {
		if err := registerCycle(c); err != nil {
			return err
		}
	}

	keys := append(c.Bindings(), ioc.KeyOf[*orderService](""))
	failed := 0
	for _, key := range keys {
		if _, err := c.Resolve(key.Type, key.Key); err != nil {
			failed++
			fmt.Fprintf(out, "FAIL %s: %v\n", key, err)
			continue
		}
		fmt.Fprintf(out, "ok   %s\n", key)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d bindings failed to resolve", failed, len(keys))
	}
	return nil
}
