package routing

import (
	"github.com/campusmate/campusnav/pkg"
	da "github.com/campusmate/campusnav/pkg/datastructure"
)

type VertexInfo struct {
	dist     float64
	parent   da.Index // predecessor waypoint
	edge     da.Index // edge used to reach the vertex from parent
	heapNode *da.PriorityQueueNode[da.Index]
	settled  bool
}

func newVertexInfo() VertexInfo {
	return VertexInfo{
		dist:   pkg.INF_WEIGHT,
		parent: da.INVALID_INDEX,
		edge:   da.INVALID_INDEX,
	}
}

func (vi *VertexInfo) GetDist() float64 {
	return vi.dist
}

func (vi *VertexInfo) IsLabelled() bool {
	return vi.dist < pkg.INF_WEIGHT
}

func (vi *VertexInfo) update(dist float64, parent, edge da.Index) {
	vi.dist = dist
	vi.parent = parent
	vi.edge = edge
}
