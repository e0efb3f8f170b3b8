// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file converts the compact recipe syntax into a connection list.
//
//	integrity_coverage fastqc (spades process_spades | skesa)
//
// Processes separated by whitespace are chained on one lane. A parenthesised
// group forks the preceding process: every `|` separated branch is placed on
// a fresh lane. A fork must be the last element of its sequence.
package model

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/nfcompose/internal/config"
)

// recipeRootLane is the lane the root and the first sequence sit on.
const recipeRootLane = 1

type recipeParser struct {
	tokens   []string
	pos      int
	lastLane int
	conns    []config.Connection
}

// ParseRecipe converts a recipe string into an ordered connection list.
func ParseRecipe(recipe string) ([]config.Connection, error) {
	tokens := tokenizeRecipe(recipe)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("recipe is empty")
	}

	p := &recipeParser{tokens: tokens, lastLane: recipeRootLane}
	root := config.Endpoint{Process: config.RootProcess, Lane: recipeRootLane}
	if err := p.sequence(root, recipeRootLane); err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		return nil, fmt.Errorf("unexpected %q at token %d", p.tokens[p.pos], p.pos)
	}
	return p.conns, nil
}

func tokenizeRecipe(recipe string) []string {
	r := strings.NewReplacer("(", " ( ", ")", " ) ", "|", " | ")
	return strings.Fields(r.Replace(recipe))
}

// sequence consumes processes placed on `lane` downstream of `upstream`, and
// at most one trailing fork group. It stops before a `|` or `)`.
func (p *recipeParser) sequence(upstream config.Endpoint, lane int) error {
	count := 0
	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		switch tok {
		case "|", ")":
			if count == 0 {
				return fmt.Errorf("empty fork branch before %q at token %d", tok, p.pos)
			}
			return nil
		case "(":
			p.pos++
			if err := p.fork(upstream); err != nil {
				return err
			}
			if p.pos < len(p.tokens) && p.tokens[p.pos] != "|" && p.tokens[p.pos] != ")" {
				return fmt.Errorf("process %q follows a fork at token %d; a fork must end its sequence", p.tokens[p.pos], p.pos)
			}
			return nil
		default:
			out := config.Endpoint{Process: tok, Lane: lane}
			p.conns = append(p.conns, config.Connection{Input: upstream, Output: out})
			upstream = out
			count++
			p.pos++
		}
	}
	if count == 0 {
		return fmt.Errorf("recipe ends with an empty sequence")
	}
	return nil
}

// fork consumes `branch | branch ... )` after an opening parenthesis.
func (p *recipeParser) fork(upstream config.Endpoint) error {
	for {
		p.lastLane++
		if err := p.sequence(upstream, p.lastLane); err != nil {
			return err
		}
		if p.pos >= len(p.tokens) {
			return fmt.Errorf("unclosed fork")
		}
		tok := p.tokens[p.pos]
		p.pos++
		if tok == ")" {
			return nil
		}
	}
}
