package minc

import (
	"fmt"
	"testing"
)

func TestPlanHyperslab(t *testing.T) {
	tests := []struct {
		name       string
		forward    []int
		sizes      []int
		count      []int
		nArray     int
		wantDirect bool
		wantSizes  []int
		wantToDst  []int
	}{
		{
			name:    "innermost row",
			forward: []int{0, 1, 2}, sizes: []int{2, 3, 4}, count: []int{1, 1, 4}, nArray: 3,
			wantDirect: true, wantSizes: []int{4}, wantToDst: []int{2},
		},
		{
			name:    "whole volume",
			forward: []int{0, 1}, sizes: []int{3, 4}, count: []int{3, 4}, nArray: 2,
			wantDirect: true, wantSizes: []int{3, 4}, wantToDst: []int{0, 1},
		},
		{
			name:    "partial innermost",
			forward: []int{0, 1}, sizes: []int{3, 4}, count: []int{1, 2}, nArray: 2,
			wantDirect: true, wantSizes: []int{2}, wantToDst: []int{1},
		},
		{
			name:    "full outside partial",
			forward: []int{0, 1}, sizes: []int{3, 4}, count: []int{3, 2}, nArray: 2,
			wantDirect: false, wantSizes: []int{3, 2}, wantToDst: []int{0, 1},
		},
		{
			name:    "reversed row",
			forward: []int{2, 1, 0}, sizes: []int{10, 10, 10}, count: []int{1, 1, 10}, nArray: 3,
			wantDirect: false, wantSizes: []int{10}, wantToDst: []int{0},
		},
		{
			name:    "transposed plane",
			forward: []int{1, 0}, sizes: []int{3, 4}, count: []int{3, 4}, nArray: 2,
			wantDirect: false, wantSizes: []int{3, 4}, wantToDst: []int{1, 0},
		},
		{
			name:    "length one dimension kept",
			forward: []int{0, 1, 2}, sizes: []int{1, 5, 5}, count: []int{1, 5, 5}, nArray: 3,
			wantDirect: true, wantSizes: []int{1, 5, 5}, wantToDst: []int{0, 1, 2},
		},
		{
			name:    "stacked dimension ignored",
			forward: []int{-1, 0, 1}, sizes: []int{4, 5, 6}, count: []int{1, 5, 6}, nArray: 2,
			wantDirect: true, wantSizes: []int{5, 6}, wantToDst: []int{0, 1},
		},
		{
			name:    "stacked dimension inside",
			forward: []int{0, 1, -1}, sizes: []int{5, 6, 4}, count: []int{5, 6, 1}, nArray: 2,
			wantDirect: true, wantSizes: []int{5, 6}, wantToDst: []int{0, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := planHyperslab(tt.forward, tt.sizes, tt.count, tt.nArray)
			if plan.direct != tt.wantDirect {
				t.Errorf("expected direct=%v, got %v", tt.wantDirect, plan.direct)
			}
			if fmt.Sprint(plan.tmpSizes) != fmt.Sprint(tt.wantSizes) {
				t.Errorf("expected buffer shape %v, got %v", tt.wantSizes, plan.tmpSizes)
			}
			if fmt.Sprint(plan.toDst) != fmt.Sprint(tt.wantToDst) {
				t.Errorf("expected permutation %v, got %v", tt.wantToDst, plan.toDst)
			}
		})
	}
}
