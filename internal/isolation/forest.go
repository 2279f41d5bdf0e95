// Package isolation реализует isolation forest для поиска выбросов в небольших пачках транзакций.
//
// Лес хранится как обычная структура данных: срез деревьев, каждое дерево это срез узлов.
// Все случайные решения берутся из генератора, созданного по Options.Seed, поэтому
// при одинаковом seed и одинаковом порядке входа результат совпадает побитово.
package isolation

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

const eulerGamma = 0.5772156649

const (
	DefaultTrees      = 100
	DefaultSampleSize = 256
)

var (
	ErrEmptyInput        = errors.New("isolation: empty input")
	ErrDimensionMismatch = errors.New("isolation: inconsistent feature dimension")
)

// Node узел дерева. Feature < 0 означает лист
type Node struct {
	Feature int
	Split   float64
	Left    int
	Right   int
	Size    int
}

type Tree struct {
	Nodes []Node
}

type Options struct {
	Trees      int
	SampleSize int
	Seed       int64
}

type Forest struct {
	Trees      []Tree
	SampleSize int
	Dim        int
	norm       float64
}

// Fit строит лес по точкам. Все точки должны иметь одинаковую размерность
func Fit(points [][]float64, opts Options) (*Forest, error) {
	if len(points) == 0 {
		return nil, ErrEmptyInput
	}
	dim := len(points[0])
	if dim == 0 {
		return nil, ErrEmptyInput
	}
	for i, p := range points {
		if len(p) != dim {
			return nil, fmt.Errorf("%w: point %d has %d features, want %d", ErrDimensionMismatch, i, len(p), dim)
		}
	}

	trees := opts.Trees
	if trees <= 0 {
		trees = DefaultTrees
	}
	psi := opts.SampleSize
	if psi <= 0 {
		psi = DefaultSampleSize
	}
	if psi > len(points) {
		psi = len(points)
	}

	b := &builder{
		points:   points,
		dim:      dim,
		maxDepth: int(math.Ceil(math.Log2(float64(psi)))),
		rng:      rand.New(rand.NewSource(opts.Seed)),
	}

	forest := &Forest{
		Trees:      make([]Tree, 0, trees),
		SampleSize: psi,
		Dim:        dim,
		norm:       averagePathLength(psi),
	}
	for t := 0; t < trees; t++ {
		sample := b.rng.Perm(len(points))[:psi]
		tree := Tree{Nodes: make([]Node, 0, 2*psi)}
		b.grow(&tree, sample, 0)
		forest.Trees = append(forest.Trees, tree)
	}
	return forest, nil
}

// Score возвращает аномальность точки в [0, 1]. Близко к 1 означает быстро изолируемую точку
func (f *Forest) Score(point []float64) float64 {
	if f.norm == 0 || len(f.Trees) == 0 {
		return 0
	}
	var total float64
	for _, t := range f.Trees {
		total += t.pathLength(point)
	}
	mean := total / float64(len(f.Trees))
	s := math.Pow(2, -mean/f.norm)
	return math.Max(0, math.Min(1, s))
}

// ScoreBatch строит лес по пачке и возвращает скоры в порядке входа
func ScoreBatch(points [][]float64, opts Options) ([]float64, error) {
	forest, err := Fit(points, opts)
	if err != nil {
		return nil, err
	}
	scores := make([]float64, len(points))
	for i, p := range points {
		scores[i] = forest.Score(p)
	}
	return scores, nil
}

// Select возвращает индексы со скором строго выше порога
func Select(scores []float64, threshold float64) []int {
	var idx []int
	for i, s := range scores {
		if s > threshold {
			idx = append(idx, i)
		}
	}
	return idx
}

func (t Tree) pathLength(x []float64) float64 {
	i, depth := 0, 0
	for {
		n := t.Nodes[i]
		if n.Feature < 0 {
			return float64(depth) + averagePathLength(n.Size)
		}
		if x[n.Feature] <= n.Split {
			i = n.Left
		} else {
			i = n.Right
		}
		depth++
	}
}

type builder struct {
	points   [][]float64
	dim      int
	maxDepth int
	rng      *rand.Rand
}

// grow добавляет поддерево для idx и возвращает индекс его корня
func (b *builder) grow(tree *Tree, idx []int, depth int) int {
	self := len(tree.Nodes)
	tree.Nodes = append(tree.Nodes, Node{Feature: -1, Size: len(idx)})
	if len(idx) <= 1 || depth >= b.maxDepth {
		return self
	}

	var candidates []int
	lows := make([]float64, b.dim)
	highs := make([]float64, b.dim)
	for f := 0; f < b.dim; f++ {
		lo, hi := b.points[idx[0]][f], b.points[idx[0]][f]
		for _, i := range idx[1:] {
			v := b.points[i][f]
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		lows[f], highs[f] = lo, hi
		if hi > lo {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 0 {
		return self
	}

	f := candidates[b.rng.Intn(len(candidates))]
	split := lows[f] + b.rng.Float64()*(highs[f]-lows[f])

	// split в [lo, hi): минимум всегда слева, максимум всегда справа
	left := make([]int, 0, len(idx))
	right := make([]int, 0, len(idx))
	for _, i := range idx {
		if b.points[i][f] <= split {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	l := b.grow(tree, left, depth+1)
	r := b.grow(tree, right, depth+1)
	tree.Nodes[self].Feature = f
	tree.Nodes[self].Split = split
	tree.Nodes[self].Left = l
	tree.Nodes[self].Right = r
	return self
}

// averagePathLength средняя длина неуспешного поиска в BST из n элементов
func averagePathLength(n int) float64 {
	switch {
	case n <= 1:
		return 0
	case n == 2:
		return 1
	default:
		nf := float64(n)
		return 2*(math.Log(nf-1)+eulerGamma) - 2*(nf-1)/nf
	}
}
