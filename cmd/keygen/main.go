// Command keygen runs the one-time Groth16 setup for the score circuit and
// writes the proving and verifying keys to disk. The service only needs
// vk.bin; provers need pk.bin and the serialized constraint system.
package main

import (
	"flag"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"

	"github.com/turbo-ing/2048-scoreproof/internal/verifier"
)

func main() {
	outDir := flag.String("out", "keys", "directory to write circuit.r1cs, pk.bin and vk.bin into")
	flag.Parse()

	cs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &verifier.Game2048Circuit{})
	if err != nil {
		log.Fatalf("Failed to compile circuit: %v", err)
	}

	pk, vk, err := groth16.Setup(cs)
	if err != nil {
		log.Fatalf("Failed to run Groth16 setup: %v", err)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	writeFile(filepath.Join(*outDir, "circuit.r1cs"), cs)
	writeFile(filepath.Join(*outDir, "pk.bin"), pk)
	writeFile(filepath.Join(*outDir, "vk.bin"), vk)
}

func writeFile(path string, w io.WriterTo) {
	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", path, err)
	}
	defer f.Close()
	if _, err := w.WriteTo(f); err != nil {
		log.Fatalf("Failed to write %s: %v", path, err)
	}
	log.Printf("Wrote %s", path)
}
