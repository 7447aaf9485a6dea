// Package dbfs is the CLI collaborator: it tokenizes the query grammar
// from the specification, turns each line into a Query, and dispatches
// it against a *engine.GraphEngine. It holds no graph state of its own —
// every call is a thin pass-through to the engine's public API.
package dbfs

import (
	"strconv"
	"strings"

	"github.com/dreamware/graphdb/internal/engine"
	"github.com/dreamware/graphdb/internal/graph"
	"github.com/dreamware/graphdb/internal/gverrors"
)

// verb identifies the statement kind, the first token of every query.
type verb uint8

const (
	verbCreate verb = iota
	verbMatch
	verbDelete
	verbUpdate
	verbDump
)

// objectRef names an endpoint by id ("id:3") or by label ("Cat"), used by
// create-relationship's from/to clauses.
type objectRef struct {
	hasID bool
	id    int32
	label string
}

// Query is the parsed form of one input line, ready for Execute.
type Query struct {
	verb verb

	graphName string

	nodeLabel  string
	properties []engine.PropertyInput

	relLabel string
	start    objectRef
	end      objectRef

	object string // "node" or "relationship", for match/delete/update

	id    int32
	hasID bool

	filterLabel string
	hasFilter   bool
	filterKey   string
	filterValue graph.Scalar
	filterCmp   string

	updateKey   graph.Scalar
	updateValue graph.Scalar
}

// Parse tokenizes line and builds a Query, mirroring the specification's
// grammar: create|match|delete|update, an object-kind suffix ending in
// ":", then object-specific tokens.
func Parse(line string) (*Query, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return nil, gverrors.Wrap(gverrors.SyntaxError, "empty query")
	}

	switch strings.ToLower(tokens[0]) {
	case "create":
		return parseCreate(tokens)
	case "match":
		return parseMatch(tokens)
	case "delete":
		return parseDelete(tokens)
	case "update":
		return parseUpdate(tokens)
	case "dump":
		return &Query{verb: verbDump}, nil
	default:
		return nil, gverrors.Wrap(gverrors.SyntaxError, "query type %q is incorrect, try create, match, delete, update, or dump", tokens[0])
	}
}

func parseCreate(tokens []string) (*Query, error) {
	if len(tokens) < 2 {
		return nil, gverrors.Wrap(gverrors.SyntaxError, "specify what to create: graph, node, or relationship")
	}
	switch tokens[1] {
	case "graph:":
		if len(tokens) < 3 {
			return nil, gverrors.Wrap(gverrors.SyntaxError, "graph label is not specified")
		}
		return &Query{verb: verbCreate, object: "graph", graphName: tokens[2]}, nil

	case "node:":
		if len(tokens) < 3 {
			return nil, gverrors.Wrap(gverrors.SyntaxError, "node label is not specified")
		}
		props, err := parseProperties(tokens[3:])
		if err != nil {
			return nil, err
		}
		return &Query{verb: verbCreate, object: "node", nodeLabel: tokens[2], properties: props}, nil

	case "relationship:":
		if len(tokens) < 7 {
			return nil, gverrors.Wrap(gverrors.SyntaxError, "create relationship is missing its nodes")
		}
		if tokens[3] != "from" || tokens[5] != "to" {
			return nil, gverrors.Wrap(gverrors.SyntaxError, "create relationship is missing its from/to clauses")
		}
		start, err := parseRef(tokens[4])
		if err != nil {
			return nil, err
		}
		end, err := parseRef(tokens[6])
		if err != nil {
			return nil, err
		}
		props, err := parseProperties(tokens[7:])
		if err != nil {
			return nil, err
		}
		return &Query{verb: verbCreate, object: "relationship", relLabel: tokens[2], start: start, end: end, properties: props}, nil

	default:
		return nil, gverrors.Wrap(gverrors.SyntaxError, "create statement's object type is incorrect, valid ones are graph, node, relationship")
	}
}

func parseMatch(tokens []string) (*Query, error) {
	if len(tokens) < 2 {
		return nil, gverrors.Wrap(gverrors.SyntaxError, "specify what to match: graph, node, or relationship")
	}
	if tokens[1] == "graph:" {
		return &Query{verb: verbMatch, object: "graph"}, nil
	}
	if tokens[1] != "node:" && tokens[1] != "relationship:" {
		return nil, gverrors.Wrap(gverrors.SyntaxError, "match statement's object type is incorrect, valid ones are graph, node, relationship")
	}
	if len(tokens) < 3 {
		return nil, gverrors.Wrap(gverrors.SyntaxError, "object label is not specified")
	}

	object := "node"
	if tokens[1] == "relationship:" {
		object = "relationship"
	}
	term := tokens[2]

	if strings.HasPrefix(term, "id:") {
		id, err := strconv.ParseInt(term[3:], 10, 32)
		if err != nil {
			return nil, gverrors.Wrap(gverrors.SyntaxError, "invalid id %q", term)
		}
		return &Query{verb: verbMatch, object: object, id: int32(id), hasID: true}, nil
	}

	if key, cmp, value, ok := parseComparator(term); ok {
		return &Query{verb: verbMatch, object: object, hasFilter: true, filterKey: key, filterCmp: cmp, filterValue: value}, nil
	}

	return &Query{verb: verbMatch, object: object, filterLabel: term}, nil
}

func parseDelete(tokens []string) (*Query, error) {
	if len(tokens) < 3 {
		return nil, gverrors.Wrap(gverrors.SyntaxError, "delete statement is incorrect")
	}
	object, err := deleteUpdateObject(tokens[1])
	if err != nil {
		return nil, err
	}
	id, err := parseIDTerm(tokens[2])
	if err != nil {
		return nil, err
	}
	return &Query{verb: verbDelete, object: object, id: id, hasID: true}, nil
}

func parseUpdate(tokens []string) (*Query, error) {
	if len(tokens) < 4 {
		return nil, gverrors.Wrap(gverrors.SyntaxError, "update statement is incorrect")
	}
	object, err := deleteUpdateObject(tokens[1])
	if err != nil {
		return nil, err
	}
	id, err := parseIDTerm(tokens[2])
	if err != nil {
		return nil, err
	}
	key, value, err := parseKV(tokens[3])
	if err != nil {
		return nil, err
	}
	return &Query{verb: verbUpdate, object: object, id: id, hasID: true, updateKey: key, updateValue: value}, nil
}

func deleteUpdateObject(token string) (string, error) {
	switch token {
	case "node:":
		return "node", nil
	case "relationship:":
		return "relationship", nil
	default:
		return "", gverrors.Wrap(gverrors.SyntaxError, "object type is incorrect, valid ones are node, relationship")
	}
}

func parseIDTerm(term string) (int32, error) {
	if !strings.HasPrefix(term, "id:") {
		return 0, gverrors.Wrap(gverrors.SyntaxError, "expected id:<n>, got %q", term)
	}
	id, err := strconv.ParseInt(term[3:], 10, 32)
	if err != nil {
		return 0, gverrors.Wrap(gverrors.SyntaxError, "invalid id %q", term)
	}
	return int32(id), nil
}

func parseRef(token string) (objectRef, error) {
	if strings.HasPrefix(token, "id:") {
		id, err := strconv.ParseInt(token[3:], 10, 32)
		if err != nil {
			return objectRef{}, gverrors.Wrap(gverrors.SyntaxError, "invalid id %q", token)
		}
		return objectRef{hasID: true, id: int32(id)}, nil
	}
	return objectRef{label: token}, nil
}

func parseProperties(tokens []string) ([]engine.PropertyInput, error) {
	var props []engine.PropertyInput
	for _, tok := range tokens {
		key, value, err := parseKV(tok)
		if err != nil {
			return nil, err
		}
		props = append(props, engine.PropertyInput{Key: key, Value: value})
	}
	return props, nil
}

func parseKV(token string) (graph.Scalar, graph.Scalar, error) {
	key, value, ok := strings.Cut(token, ":")
	if !ok || key == "" || value == "" {
		return graph.Scalar{}, graph.Scalar{}, gverrors.Wrap(gverrors.SyntaxError, "write properties as key:value, got %q", token)
	}
	return graph.String(key), castValue(value), nil
}

// comparators are checked longest-first so ">=" and "<=" aren't mistaken
// for "=" with a stray trailing character.
var comparators = []string{">=", "<=", "=", "<", ">"}

func parseComparator(term string) (key, cmp string, value graph.Scalar, ok bool) {
	for _, c := range comparators {
		if idx := strings.Index(term, c); idx > 0 {
			key = term[:idx]
			rest := term[idx+len(c):]
			if rest == "" {
				return "", "", graph.Scalar{}, false
			}
			return key, c, castValue(rest), true
		}
	}
	return "", "", graph.Scalar{}, false
}

// castValue promotes raw query text the same way a Dynamic-store
// round-trip would: int, then float, else left as a string. It never
// produces a bool, since the grammar never writes the "True"/"False"
// literals the store itself uses for that promotion.
func castValue(s string) graph.Scalar {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return graph.Int(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return graph.Float(f)
	}
	return graph.String(s)
}
