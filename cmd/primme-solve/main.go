// Command primme-solve demonstrates primme.Solve against the transverse
// field Ising Hamiltonian of the examples package, in the style of the
// teacher's cmd/run/main.go: flag-configured, logs progress, writes results
// as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/fumin/primme"
	"github.com/fumin/primme/examples"
)

var (
	latticeY = flag.Int("ny", 2, "lattice height")
	latticeX = flag.Int("nx", 2, "lattice width")
	field    = flag.Float64("h", 0.5, "transverse field strength")
	numEvals = flag.Int("k", 3, "number of eigenpairs to find")
	eps      = flag.Float64("eps", 1e-10, "convergence tolerance")
	outPath  = flag.String("o", "", "output JSON path (stdout if empty)")
)

type result struct {
	Evals    []float64 `json:"evals"`
	ResNorms []float64 `json:"resNorms"`
	Stats    primme.Stats
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds | log.Llongfile | log.LstdFlags)

	if err := mainWithErr(); err != nil {
		log.Fatalf("%+v", err)
	}
}

func mainWithErr() error {
	n := [2]int{*latticeY, *latticeX}
	dim := 1 << (n[0] * n[1])
	log.Printf("building %dx%d transverse-field Ising Hamiltonian (dim %d)", n[0], n[1], dim)

	h := examples.TransverseFieldIsing(n, *field)
	op := examples.DenseSymmetric{A: h}

	p := &primme.Params{
		N:                  dim,
		NLocal:             dim,
		NumProcs:           1,
		NumEvals:           *numEvals,
		Target:             primme.Smallest,
		Eps:                *eps,
		MaxBasisSize:       min(dim, 4*(*numEvals)+20),
		MaxBlockSize:       1,
		MaxOuterIterations: 1000,
		MaxMatvecs:         100000,
		Locking:            true,
		ISeed:              [4]int{1, 2, 3, 7},
		MatrixMatvec:       op.Matvec,
	}

	evals := make([]float64, p.NumEvals)
	resNorms := make([]float64, p.NumEvals)
	evecs := mat.NewDense(p.NLocal, p.NumOrthoConst+p.NumEvals, nil)

	if err := primme.Solve(p, evals, resNorms, evecs); err != nil {
		return errors.Wrap(err, "")
	}

	r := result{Evals: evals, ResNorms: resNorms, Stats: p.Stats}
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return errors.Wrap(err, "")
	}

	if *outPath == "" {
		fmt.Println(string(b))
		return nil
	}
	if err := os.WriteFile(*outPath, b, 0644); err != nil {
		return errors.Wrap(err, "")
	}
	log.Printf("wrote %s", *outPath)
	return nil
}
