package analytics

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSimulateRemovalScenario(t *testing.T) {
	// alice owns 800 of src/core, bob 50. Removing alice leaves the
	// folder entirely bob's: bus factor 1, different owner, not
	// undefined.
	result, err := SimulateRemoval(coreMatrix(), []string{"alice"}, noDecay())
	require.NoError(t, err)

	require.Empty(t, result.OrphanedFolders, "src/core keeps an owner")
	require.Equal(t, 50.0, result.Matrix.Weight("bob", "src/core"))
	require.Zero(t, result.Matrix.Weight("alice", "src/core"))

	risk, err := FolderBusFactor(result.Matrix, "src/core", 0.5)
	require.NoError(t, err)
	require.Equal(t, 1, risk.BusFactor)
	require.Equal(t, []string{"bob"}, risk.RiskSet)
}

func TestSimulateRemovalNoOpLaw(t *testing.T) {
	base := coreMatrix()

	baseline, err := ComputeBusFactor(base, noDecay())
	require.NoError(t, err)

	// "ghost" holds no weight anywhere; the result must be
	// byte-for-byte identical to the unmodified computation.
	result, err := SimulateRemoval(base, []string{"ghost"}, noDecay())
	require.NoError(t, err)

	wantMatrix, err := json.Marshal(base)
	require.NoError(t, err)
	gotMatrix, err := json.Marshal(result.Matrix)
	require.NoError(t, err)
	require.Equal(t, wantMatrix, gotMatrix)

	wantReport, err := json.Marshal(baseline)
	require.NoError(t, err)
	gotReport, err := json.Marshal(result.BusFactor)
	require.NoError(t, err)
	require.Equal(t, wantReport, gotReport)
}

func TestSimulateRemovalOrphansFolder(t *testing.T) {
	m := NewOwnershipMatrix()
	m.Add("alice", "src/solo", 120)
	m.Add("alice", "src/shared", 80)
	m.Add("bob", "src/shared", 40)

	result, err := SimulateRemoval(m, []string{"alice"}, noDecay())
	require.NoError(t, err)

	require.Equal(t, []string{"src/solo"}, result.OrphanedFolders)
	require.NotNil(t, result.GlobalBefore)
	require.NotNil(t, result.GlobalAfter)
	require.Equal(t, "src/shared", result.GlobalAfter.Folder)
}

func TestSimulateRemovalAllContributors(t *testing.T) {
	result, err := SimulateRemoval(coreMatrix(), []string{"alice", "bob"}, noDecay())
	require.NoError(t, err)

	require.Equal(t, []string{"src/core"}, result.OrphanedFolders)
	require.Nil(t, result.GlobalAfter, "a fully orphaned matrix has no defined global figure")
	require.Empty(t, result.Matrix.Folders())
}

func TestSimulateRemovalDoesNotMutateInput(t *testing.T) {
	base := coreMatrix()
	_, err := SimulateRemoval(base, []string{"alice"}, noDecay())
	require.NoError(t, err)
	require.Equal(t, 800.0, base.Weight("alice", "src/core"), "input matrix must stay untouched")
}
