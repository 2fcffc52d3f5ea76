package breakdown

import "github.com/vsinha/factoryplan/pkg/domain/entities"

// Row is a tree node paired with its depth below the demand root
type Row struct {
	Depth int
	Node  *entities.BreakdownNode
}

// Walk visits every node of the forest in pre-order
func Walk(forest []entities.BreakdownNode, visit func(depth int, node *entities.BreakdownNode)) {
	for i := range forest {
		walkNode(&forest[i], 0, visit)
	}
}

func walkNode(node *entities.BreakdownNode, depth int, visit func(int, *entities.BreakdownNode)) {
	visit(depth, node)
	for i := range node.Children {
		walkNode(&node.Children[i], depth+1, visit)
	}
}

// Flatten lists the forest in pre-order for tabular display
func Flatten(forest []entities.BreakdownNode) []Row {
	var rows []Row
	Walk(forest, func(depth int, node *entities.BreakdownNode) {
		rows = append(rows, Row{Depth: depth, Node: node})
	})
	return rows
}
