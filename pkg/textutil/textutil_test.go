package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "linearalgebra", NormalizeName(" Linear  Algebra\n"))
	require.Equal(t, "矩阵分析", NormalizeName("矩阵 分析"))
	require.Equal(t, "", NormalizeName(" \t"))
}
