/*******************************************************************************
*
* This file is part of gofuzzer.
*
* gofuzzer is free software: you can redistribute it and/or modify it under
* the terms of the GNU General Public License as published by the Free
* Software Foundation, either version 3 of the License, or (at your option)
* any later version.
*
* gofuzzer is distributed in the hope that it will be useful, but WITHOUT ANY
* WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS
* FOR A PARTICULAR PURPOSE. See the GNU General Public License for more
* details.
*
* You should have received a copy of the GNU General Public License along
* with gofuzzer. If not, see <http://www.gnu.org/licenses/>.
*
*******************************************************************************/

// Package mutate implements the Mutation Planner (spec.md §4.4): given a
// corpus index and a chunk registry already populated by parsing it, select
// one of four structure-preserving operations and hand it to
// internal/splice. The planner never looks at format semantics — it only
// ever sees chunk types, optionality flags and insertion points.
package mutate

import (
	"math/rand"

	"github.com/jrenckens/gofuzzer/internal/chunkreg"
	"github.com/jrenckens/gofuzzer/internal/gofuzzerr"
	"github.com/jrenckens/gofuzzer/internal/splice"
	"github.com/jrenckens/gofuzzer/internal/template"
)

// Case identifies which of spec.md §4.4's four table rows a mutation used.
type Case int

const (
	CaseReplaceNonOptional Case = iota
	CaseReplaceOptional
	CaseInsert
	CaseDelete
)

// Outcome is one applied mutation: which case ran, against which recipient
// file, and what splice.Replace/Insert/Delete returned.
type Outcome struct {
	Case      Case
	FileIndex int
	Result    splice.Result
}

// Planner holds the registry built from an initial get_all_chunks-style
// parse of a corpus, plus each file's decision stream as recorded by that
// parse, and a per-file pool of deletable chunks that CaseDelete draws from
// and shrinks, so the same chunk is never offered twice — "then removed from
// the pool", spec.md §4.4 case 3.
type Planner struct {
	Registry  *chunkreg.Registry
	Decisions map[int][]byte

	rng       *rand.Rand
	deletable map[int][]*chunkreg.Chunk
}

// New builds a Planner. decisions must hold one entry per file index
// present in reg (the decision stream recorded by parsing that file).
func New(reg *chunkreg.Registry, decisions map[int][]byte, seed int64) *Planner {
	p := &Planner{
		Registry:  reg,
		Decisions: decisions,
		rng:       rand.New(rand.NewSource(seed)),
		deletable: make(map[int][]*chunkreg.Chunk),
	}
	for fileIndex := range decisions {
		p.deletable[fileIndex] = append([]*chunkreg.Chunk(nil), reg.Deletable(fileIndex)...)
	}
	return p
}

// MutateOne performs one randomly-selected smart mutation against file
// fileIndex, per spec.md §4.4's case table, and returns the resulting file
// and drift. Case 3 (delete) is only offered while fileIndex still has
// deletable chunks remaining.
func (p *Planner) MutateOne(tpl template.Template, fileIndex int) (Outcome, error) {
	cases := []Case{CaseReplaceNonOptional, CaseReplaceOptional, CaseInsert}
	if len(p.deletable[fileIndex]) > 0 {
		cases = append(cases, CaseDelete)
	}
	chosen := cases[p.rng.Intn(len(cases))]

	switch chosen {
	case CaseReplaceNonOptional:
		return p.replaceNonOptional(tpl, fileIndex)
	case CaseReplaceOptional:
		return p.replaceOptional(tpl, fileIndex)
	case CaseInsert:
		return p.insert(tpl, fileIndex)
	default:
		return p.delete(tpl, fileIndex)
	}
}

func (p *Planner) optionalOfFile(fileIndex int) []*chunkreg.Chunk {
	var out []*chunkreg.Chunk
	for _, c := range p.Registry.AllChunks(fileIndex) {
		if c.Optional {
			out = append(out, c)
		}
	}
	return out
}

// replaceNonOptional picks its recipient by first choosing one of the
// file's non-optional same-type runs, then a chunk within that run, mirroring
// the original's two-step `non_optional_index[file][rand()%...]` then
// `no.start + rand()%no.size` indexing into the type's global chunk list.
// This weights each run equally regardless of its size, rather than letting
// types with many chunks dominate a flat per-chunk sample.
func (p *Planner) replaceNonOptional(tpl template.Template, fileIndex int) (Outcome, error) {
	runs := p.Registry.NonOptionalRuns(fileIndex)
	if len(runs) == 0 {
		return Outcome{}, gofuzzerr.New(gofuzzerr.KindPrecondition, "mutate.replaceNonOptional",
			"file %d has no non-optional chunks", fileIndex)
	}
	run := runs[p.rng.Intn(len(runs))]

	donors := p.Registry.NonOptionalChunks[run.Type]
	if len(donors) == 0 {
		return Outcome{}, gofuzzerr.New(gofuzzerr.KindPrecondition, "mutate.replaceNonOptional",
			"no donor of type %q available", run.Type)
	}
	recipient := donors[run.Start+p.rng.Intn(run.Size)]
	donor := donors[p.rng.Intn(len(donors))]

	result, err := splice.Replace(tpl, toTarget(recipient, p.Decisions[recipient.FileIndex]), toTarget(donor, p.Decisions[donor.FileIndex]))
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Case: CaseReplaceNonOptional, FileIndex: fileIndex, Result: result}, nil
}

func (p *Planner) replaceOptional(tpl template.Template, fileIndex int) (Outcome, error) {
	recipients := p.optionalOfFile(fileIndex)
	if len(recipients) == 0 {
		return Outcome{}, gofuzzerr.New(gofuzzerr.KindPrecondition, "mutate.replaceOptional",
			"file %d has no optional chunks", fileIndex)
	}
	recipient := recipients[p.rng.Intn(len(recipients))]

	donors := p.Registry.OptionalChunks
	if len(donors) == 0 {
		return Outcome{}, gofuzzerr.New(gofuzzerr.KindPrecondition, "mutate.replaceOptional", "no optional donors available")
	}
	donor := donors[p.rng.Intn(len(donors))]

	result, err := splice.Replace(tpl, toTarget(recipient, p.Decisions[recipient.FileIndex]), toTarget(donor, p.Decisions[donor.FileIndex]))
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Case: CaseReplaceOptional, FileIndex: fileIndex, Result: result}, nil
}

func (p *Planner) insert(tpl template.Template, fileIndex int) (Outcome, error) {
	points := p.Registry.InsertionPoints[fileIndex]
	if len(points) == 0 {
		return Outcome{}, gofuzzerr.New(gofuzzerr.KindPrecondition, "mutate.insert",
			"file %d has no insertion points", fileIndex)
	}
	point := points[p.rng.Intn(len(points))]

	donors := p.Registry.OptionalChunks
	if len(donors) == 0 {
		return Outcome{}, gofuzzerr.New(gofuzzerr.KindPrecondition, "mutate.insert", "no optional donors available")
	}
	donor := donors[p.rng.Intn(len(donors))]

	result, err := splice.Insert(tpl, point, p.Decisions[fileIndex], toTarget(donor, p.Decisions[donor.FileIndex]))
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Case: CaseInsert, FileIndex: fileIndex, Result: result}, nil
}

func (p *Planner) delete(tpl template.Template, fileIndex int) (Outcome, error) {
	pool := p.deletable[fileIndex]
	if len(pool) == 0 {
		return Outcome{}, gofuzzerr.New(gofuzzerr.KindPrecondition, "mutate.delete",
			"file %d has no deletable chunks", fileIndex)
	}
	i := p.rng.Intn(len(pool))
	target := pool[i]
	p.deletable[fileIndex] = append(pool[:i], pool[i+1:]...)

	result, err := splice.Delete(tpl, toTarget(target, p.Decisions[fileIndex]))
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Case: CaseDelete, FileIndex: fileIndex, Result: result}, nil
}

func toTarget(c *chunkreg.Chunk, decisions []byte) splice.Target {
	return splice.Target{
		DecisionStream:    decisions,
		Start:             c.Start,
		End:               c.End,
		Optional:          c.Optional,
		FollowingOptional: c.FollowingOptional,
		Type:              c.Type,
	}
}
