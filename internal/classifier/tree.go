package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"go.uber.org/zap"
)

const leafFeature = -1

// Node is one entry of a flattened binary decision tree. Internal nodes send
// x[Feature] <= Threshold to Left and everything else to Right; leaves carry
// the fit probability in Value.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

type treeFile struct {
	Name  string `json:"name"`
	Nodes []Node `json:"nodes"`
}

type Tree struct {
	name  string
	nodes []Node
}

func NewTree(name string, nodes []Node) (*Tree, error) {
	if err := validateNodes(nodes); err != nil {
		return nil, err
	}
	return &Tree{
		name:  name,
		nodes: append([]Node(nil), nodes...),
	}, nil
}

// Placeholder is the depth-one tree obtained by fitting [0,0,0,0]→0 and
// [1,1,1,1]→1. It keeps the service operable without a trained model.
func Placeholder() *Tree {
	tree, err := NewTree("placeholder", []Node{
		{Feature: 0, Threshold: 0.5, Left: 1, Right: 2},
		{Feature: leafFeature, Value: 0},
		{Feature: leafFeature, Value: 1},
	})
	if err != nil {
		panic(fmt.Sprintf("invalid placeholder tree: %v", err))
	}
	return tree
}

func LoadTree(path string) (*Tree, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}

	var file treeFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}

	name := file.Name
	if name == "" {
		name = path
	}
	return NewTree(name, file.Nodes)
}

// LoadOrPlaceholder loads the model at path, falling back to Placeholder when
// the path is empty or the file cannot be used.
func LoadOrPlaceholder(path string, logger *zap.Logger) *Tree {
	if path == "" {
		logger.Warn("no classifier model configured, using placeholder model")
		return Placeholder()
	}

	tree, err := LoadTree(path)
	if err != nil {
		logger.Warn("using placeholder model", zap.String("model_path", path), zap.Error(err))
		return Placeholder()
	}

	logger.Info("classifier model loaded", zap.String("model", tree.Name()), zap.Int("nodes", len(tree.nodes)))
	return tree
}

func (t *Tree) Name() string {
	return t.name
}

func (t *Tree) Predict(ctx context.Context, features [4]float64) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	for _, v := range features {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("non-finite feature value %v", v)
		}
	}

	idx := 0
	// Children always sit after their parent, so this terminates.
	for {
		node := t.nodes[idx]
		if node.Feature == leafFeature {
			return node.Value, nil
		}
		if features[node.Feature] <= node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
	}
}

func validateNodes(nodes []Node) error {
	if len(nodes) == 0 {
		return fmt.Errorf("%w: tree has no nodes", ErrInvalidModel)
	}

	for i, n := range nodes {
		if n.Feature == leafFeature {
			if math.IsNaN(n.Value) || n.Value < 0 || n.Value > 1 {
				return fmt.Errorf("%w: leaf %d value %v outside [0,1]", ErrInvalidModel, i, n.Value)
			}
			continue
		}

		if n.Feature < 0 || n.Feature >= len(FeatureNames) {
			return fmt.Errorf("%w: node %d uses unknown feature %d", ErrInvalidModel, i, n.Feature)
		}
		if math.IsNaN(n.Threshold) {
			return fmt.Errorf("%w: node %d has NaN threshold", ErrInvalidModel, i)
		}
		for _, child := range []int{n.Left, n.Right} {
			if child <= i || child >= len(nodes) {
				return fmt.Errorf("%w: node %d has invalid child %d", ErrInvalidModel, i, child)
			}
		}
	}

	return nil
}
