package platform_test

import (
	"fmt"

	"github.com/openfang/installer/internal/platform"
)

func ExampleNormalize() {
	for _, enc := range []platform.Encoding{
		platform.Symbolic("x64"),
		platform.ProcessorARM64,
		platform.MachineAMD64,
	} {
		arch, err := platform.Normalize(enc)
		if err != nil {
			fmt.Println(err)
			continue
		}
		fmt.Printf("%s -> %s\n", enc.Raw(), arch)
	}
	// Output:
	// x64 -> x86_64
	// 12 -> aarch64
	// 0x8664 -> x86_64
}

func ExampleTripleFor() {
	triple, err := platform.TripleFor("windows", platform.ArchX86_64)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(triple)
	fmt.Println(triple.ExecutableName("openfang"))
	// Output:
	// x86_64-pc-windows-msvc
	// openfang.exe
}
