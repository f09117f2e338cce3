package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRebar_Area(t *testing.T) {
	r := NewRebar(20, 3, DefaultSteel)
	assert.InDelta(t, 3*math.Pi*100, r.Area, 1e-9)
	assert.Equal(t, 3, r.Bars)
}

func TestLayer_AreaAndCentroid(t *testing.T) {
	l := Layer{
		Rebar:  NewRebar(16, 1, DefaultSteel),
		Points: []Point{{X: 0, Y: 50}, {X: 100, Y: 50}, {X: 200, Y: 50}},
	}
	assert.InDelta(t, 3*math.Pi*64, l.Area(), 1e-9)
	assert.Equal(t, Point{X: 100, Y: 50}, l.Centroid())
	assert.Equal(t, Point{}, Layer{}.Centroid())
}

func TestPreLoad_Strain(t *testing.T) {
	layer := Layer{Rebar: NewRebar(10, 1, DefaultSteel), Points: []Point{{}}}
	a := layer.Area()

	tests := []struct {
		name string
		pl   PreLoad
		want float64
	}{
		{"strain", PreLoad{Kind: PreloadStrain, Value: 0.002, Layer: layer}, 0.002},
		{"stress", PreLoad{Kind: PreloadStress, Value: 400, Layer: layer}, 0.002},
		{"force", PreLoad{Kind: PreloadForce, Value: 0.4 * a, Layer: layer}, 0.002},
		{"unknown", PreLoad{Kind: "torque", Value: 1, Layer: layer}, 0},
		{"no modulus", PreLoad{Kind: PreloadStress, Value: 400}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, tc.pl.Strain(), 1e-12)
		})
	}
}

func TestConcreteGrade(t *testing.T) {
	c, err := ConcreteGrade("C30")
	require.NoError(t, err)
	assert.Equal(t, Concrete, c.Family)
	assert.Equal(t, 30.0, c.Strength)
	assert.InDelta(t, 4700*math.Sqrt(30), c.Modulus, 1e-9)

	_, err = ConcreteGrade("C99")
	require.Error(t, err)

	assert.Equal(t, "C20", Grades()[0])
	assert.Equal(t, "C50", Grades()[len(Grades())-1])
}
