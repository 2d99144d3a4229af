package sim

import (
	"math"
	"testing"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"empty", State{}, true},
		{"normal", State{1.0, 2.0, 3.0}, true},
		{"negative", State{-5.0, 2.0}, true},
		{"with NaN", State{1.0, math.NaN()}, false},
		{"with +Inf", State{1.0, math.Inf(1)}, false},
		{"with -Inf", State{1.0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestState_Sum(t *testing.T) {
	tests := []struct {
		state    State
		expected float64
	}{
		{State{}, 0},
		{State{100, 101}, 201},
		{State{-10, 4, 6}, 0},
	}

	for _, tt := range tests {
		if got := tt.state.Sum(); got != tt.expected {
			t.Errorf("Sum(%v) = %v, want %v", tt.state, got, tt.expected)
		}
	}
}

func TestState_Clone(t *testing.T) {
	s := State{1, 2, 3}
	c := s.Clone()
	c[0] = 99
	if s[0] == 99 {
		t.Error("Clone did not create independent copy")
	}
}

func TestNewMatrix(t *testing.T) {
	m := NewMatrix(3, 0.0001)
	if !m.IsSquare(3) {
		t.Fatalf("expected 3x3 matrix, got %v", m)
	}
	for i := range m {
		for j := range m[i] {
			want := 0.0001
			if i == j {
				want = 0
			}
			if m[i][j] != want {
				t.Errorf("m[%d][%d] = %v, want %v", i, j, m[i][j], want)
			}
		}
	}
}

func TestMatrix_IsSquare(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
		n    int
		want bool
	}{
		{"square", Matrix{{0, 1}, {1, 0}}, 2, true},
		{"wrong rows", Matrix{{0, 1}}, 2, false},
		{"ragged", Matrix{{0, 1}, {1}}, 2, false},
		{"too wide", Matrix{{0, 1, 2}, {1, 0, 2}}, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.IsSquare(tt.n); got != tt.want {
				t.Errorf("IsSquare(%d) = %v, want %v", tt.n, got, tt.want)
			}
		})
	}
}

func TestNewRand_Reproducible(t *testing.T) {
	a, b := NewRand(7), NewRand(7)
	for i := 0; i < 10; i++ {
		x, y := a.Float64(), b.Float64()
		if x != y {
			t.Fatalf("draw %d differs: %v != %v", i, x, y)
		}
		if x < 0 || x >= 1 {
			t.Fatalf("draw %d out of [0,1): %v", i, x)
		}
	}
}
