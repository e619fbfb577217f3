/*
Package boot is the root of go-ioc-boot, a reflection-driven inversion-of-control
container for Go.

go-ioc-boot provides:
- Type registration with transient and singleton lifetimes
- Keyed bindings, constructor functions, factories and instances
- Struct-field injection through `inject:""` tags
- Convention-based fallback bindings declared per service type
- Circular-dependency detection with the full resolution path
- A weak singleton cache that does not pin instances for the life of the process
- A typed message bus resolvable from the container

Package Import:

	import "github.com/SaiNageswarS/go-ioc-boot/ioc"
	import "github.com/SaiNageswarS/go-ioc-boot/messenger"

Quick Start:

	c := ioc.New()
	ioc.RegisterConstructor[Store](c, NewSQLStore, ioc.AsSingleton())
	svc, err := ioc.Resolve[*OrderService](c)

Benchmark CLI:

	go install github.com/SaiNageswarS/go-ioc-boot/cmd/ioc-bench@latest
	ioc-bench run --workers 8 --iterations 10000 --metrics

Author: SaiNageswarS
License: Apache-2.0
*/
package boot
