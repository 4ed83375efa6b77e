package kmer_test

import (
	"fmt"

	"github.com/matzehuels/cortexwalk/pkg/kmer"
)

func ExampleCanonicalize() {
	ck, flipped := kmer.Canonicalize("TTGCA")
	fmt.Println(ck, flipped)
	ck, flipped = kmer.Canonicalize("TGCAA")
	fmt.Println(ck, flipped)
	// Output:
	// TGCAA true
	// TGCAA false
}

func ExampleNextKmers() {
	mask := kmer.EdgeMask(0).WithOut('A').WithOut('T')
	fmt.Println(kmer.NextKmers("ACG", mask, false))
	// Output:
	// [CGA CGT]
}
