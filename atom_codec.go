package ricograph

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/google/mangle/ast"
)

// factRow is the SQL representation of a ground atom.
type factRow struct {
	predicate string
	hash      int64
	subject   string
	args      string
}

// atomToRow converts an atom of string constants into its row form.
// The hash covers the predicate and every argument, each length-prefixed so
// that ("ab","c") and ("a","bc") never collide by construction.
func atomToRow(atom ast.Atom) (factRow, error) {
	if len(atom.Args) == 0 {
		return factRow{}, fmt.Errorf("atom %v has no arguments", atom)
	}

	h := fnv.New64a()
	h.Write([]byte(predicateToKey(atom.Predicate)))

	var buf strings.Builder
	enc := jsontext.NewEncoder(&buf)
	if err := enc.WriteToken(jsontext.BeginArray); err != nil {
		return factRow{}, fmt.Errorf("failed to write array start for JSON args: %w", err)
	}

	var subject string
	for i, arg := range atom.Args {
		c, ok := arg.(ast.Constant)
		if !ok {
			return factRow{}, fmt.Errorf("argument %d of %v is not a constant", i, atom)
		}
		value, err := c.StringValue()
		if err != nil {
			return factRow{}, fmt.Errorf("argument %d of %v is not a string: %w", i, atom, err)
		}
		if i == 0 {
			subject = value
		}
		h.Write([]byte{0})
		h.Write([]byte(strconv.Itoa(len(value))))
		h.Write([]byte{':'})
		h.Write([]byte(value))

		if err := enc.WriteToken(jsontext.String(value)); err != nil {
			return factRow{}, fmt.Errorf("failed to marshal arg to JSON: %w", err)
		}
	}

	if err := enc.WriteToken(jsontext.EndArray); err != nil {
		return factRow{}, fmt.Errorf("failed to write array end for JSON args: %w", err)
	}

	return factRow{
		predicate: predicateToKey(atom.Predicate),
		// BIGINT keeps the bit pattern.
		hash:    int64(h.Sum64()),
		subject: subject,
		args:    strings.TrimSuffix(buf.String(), "\n"),
	}, nil
}

// rowToAtom rebuilds an atom from its predicate and stored JSON args.
func rowToAtom(pred ast.PredicateSym, argsJSON string) (ast.Atom, error) {
	var values []string
	if err := json.Unmarshal([]byte(argsJSON), &values); err != nil {
		return ast.Atom{}, fmt.Errorf("failed to unmarshal args: %w", err)
	}
	if len(values) != pred.Arity {
		return ast.Atom{}, fmt.Errorf("predicate %v expects %d args, row has %d", pred, pred.Arity, len(values))
	}

	// Fresh slice per atom: callers such as Merge keep the result.
	args := make([]ast.BaseTerm, len(values))
	for i, v := range values {
		args[i] = ast.String(v)
	}
	return ast.Atom{Predicate: pred, Args: args}, nil
}

// predicateToKey converts a PredicateSym to the database key format "symbol_arity".
// For example: PredicateSym{Symbol: "rel", Arity: 3} -> "rel_3"
func predicateToKey(p ast.PredicateSym) string {
	return p.Symbol + "_" + strconv.Itoa(p.Arity)
}

// keyToPredicate parses a database key in "symbol_arity" format back to PredicateSym.
func keyToPredicate(key string) (ast.PredicateSym, error) {
	lastUnderscore := strings.LastIndex(key, "_")
	if lastUnderscore == -1 {
		return ast.PredicateSym{}, fmt.Errorf("invalid predicate key format: %q", key)
	}
	symbol := key[:lastUnderscore]
	arity, err := strconv.Atoi(key[lastUnderscore+1:])
	if err != nil {
		return ast.PredicateSym{}, fmt.Errorf("invalid arity in predicate key %q: %w", key, err)
	}
	return ast.PredicateSym{Symbol: symbol, Arity: arity}, nil
}
