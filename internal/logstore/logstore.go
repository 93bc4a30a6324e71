// Package logstore persists a SolverLog to disk and reads it back (spec
// §6: "Persisted state... round-trip equality on numerical fields is
// required within ε_io = 1e-6"). Its directory-of-JSON-files layout
// follows internal/storage/store.go's run-metadata store in the
// simulation teacher this module descends from; unlike that store, a
// SolverLog is one JSON document, not a metadata file plus a CSV.
package logstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/san-kum/ilqgame/internal/ilq"
	"github.com/san-kum/ilqgame/internal/traj"
	"gonum.org/v1/gonum/mat"
)

// record is the on-disk shape of one SolverLog (spec §6): a sequence of
// iterate records, each with (t0, K, Δt, states, controls, strategies,
// per-player cost, wall-time). The on-disk format is not normative; this
// one is chosen for straightforward round-tripping through encoding/json.
type record struct {
	Iterates   []iterateRecord `json:"iterates"`
	NoProgress bool            `json:"no_progress"`
}

type iterateRecord struct {
	T0        float64       `json:"t0"`
	Dt        float64       `json:"dt"`
	K         int           `json:"k"`
	Xs        [][]float64   `json:"xs"`
	Us        [][][]float64 `json:"us"` // Us[player][k]
	Ps        [][][][]float64 `json:"ps"` // Ps[player][k][row][col]
	Alphas    [][][]float64   `json:"alphas"` // Alphas[player][k][row]
	TotalCost []float64       `json:"total_cost"`
	Alpha     float64         `json:"alpha"`
	WallTime  float64         `json:"wall_time"`
}

// Save writes log to path as JSON.
func Save(path string, log *ilq.SolverLog) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	rec := record{NoProgress: log.NoProgress}
	for _, it := range log.Iterates {
		rec.Iterates = append(rec.Iterates, toIterateRecord(it))
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}

// Load reads a SolverLog previously written by Save.
func Load(path string) (*ilq.SolverLog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("logstore: decode %s: %w", path, err)
	}

	log := &ilq.SolverLog{NoProgress: rec.NoProgress}
	for _, r := range rec.Iterates {
		log.Iterates = append(log.Iterates, fromIterateRecord(r))
	}
	return log, nil
}

func toIterateRecord(it *ilq.Iterate) iterateRecord {
	op := it.OperatingPoint
	numPlayers := len(op.Us)

	r := iterateRecord{
		T0:        op.T0,
		Dt:        op.Dt,
		K:         op.NumSteps(),
		Xs:        make([][]float64, len(op.Xs)),
		Us:        make([][][]float64, numPlayers),
		Ps:        make([][][][]float64, numPlayers),
		Alphas:    make([][][]float64, numPlayers),
		TotalCost: it.TotalCost,
		Alpha:     it.Alpha,
		WallTime:  it.WallTime,
	}

	for k, x := range op.Xs {
		r.Xs[k] = []float64(x)
	}
	for i := 0; i < numPlayers; i++ {
		r.Us[i] = make([][]float64, len(op.Us[i]))
		for k, u := range op.Us[i] {
			r.Us[i][k] = []float64(u)
		}

		strat := it.Strategies[i]
		r.Ps[i] = make([][][]float64, strat.Len())
		r.Alphas[i] = make([][]float64, strat.Len())
		for k := 0; k < strat.Len(); k++ {
			rows, cols := strat.Ps[k].Dims()
			p := make([][]float64, rows)
			for row := 0; row < rows; row++ {
				p[row] = make([]float64, cols)
				for col := 0; col < cols; col++ {
					p[row][col] = strat.Ps[k].At(row, col)
				}
			}
			r.Ps[i][k] = p

			alphaLen := strat.Alphas[k].Len()
			a := make([]float64, alphaLen)
			for row := 0; row < alphaLen; row++ {
				a[row] = strat.Alphas[k].AtVec(row)
			}
			r.Alphas[i][k] = a
		}
	}

	return r
}

func fromIterateRecord(r iterateRecord) *ilq.Iterate {
	numPlayers := len(r.Us)
	op := &traj.OperatingPoint{
		T0: r.T0,
		Dt: r.Dt,
		Xs: make([]traj.Vector, len(r.Xs)),
		Us: make([][]traj.Vector, numPlayers),
	}
	for k, x := range r.Xs {
		op.Xs[k] = traj.Vector(x)
	}

	strategies := make(traj.Strategies, numPlayers)
	for i := 0; i < numPlayers; i++ {
		op.Us[i] = make([]traj.Vector, len(r.Us[i]))
		for k, u := range r.Us[i] {
			op.Us[i][k] = traj.Vector(u)
		}

		k := len(r.Ps[i])
		strat := &traj.Strategy{Ps: make([]*mat.Dense, k), Alphas: make([]*mat.VecDense, k)}
		for kk := 0; kk < k; kk++ {
			rows := len(r.Ps[i][kk])
			cols := 0
			if rows > 0 {
				cols = len(r.Ps[i][kk][0])
			}
			p := mat.NewDense(rows, cols, nil)
			for row := 0; row < rows; row++ {
				for col := 0; col < cols; col++ {
					p.Set(row, col, r.Ps[i][kk][row][col])
				}
			}
			strat.Ps[kk] = p

			alpha := mat.NewVecDense(len(r.Alphas[i][kk]), nil)
			for row, v := range r.Alphas[i][kk] {
				alpha.SetVec(row, v)
			}
			strat.Alphas[kk] = alpha
		}
		strategies[i] = strat
	}

	return &ilq.Iterate{
		OperatingPoint: op,
		Strategies:     strategies,
		TotalCost:      r.TotalCost,
		Alpha:          r.Alpha,
		WallTime:       r.WallTime,
	}
}
