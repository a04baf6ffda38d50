package topology

import (
	"errors"
	"testing"

	"github.com/specialistvlad/qnexp/internal/model"
	"github.com/specialistvlad/qnexp/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func param(name string, v cty.Value) model.ParameterSpec {
	return model.ParameterSpec{Name: name, Value: v, Scale: model.One}
}

func channel(slug, a, b string, fidelity float64, noise ...string) model.Channel {
	ch := model.Channel{Slug: slug, Node1: a, Node2: b,
		Parameters: []model.ParameterSpec{param(ParamFidelity, cty.NumberFloatVal(fidelity))}}
	if len(noise) > 0 {
		ch.Parameters = append(ch.Parameters, param(ParamNoiseType, cty.StringVal(noise[0])))
	}
	return ch
}

func nodes(slugs ...string) []model.Node {
	out := make([]model.Node, len(slugs))
	for i, s := range slugs {
		out[i] = model.Node{Slug: s, Name: s}
	}
	return out
}

// randstad is a five node network given in unsorted order.
func randstad() model.Network {
	return model.Network{
		Slug:  "randstad",
		Name:  "Randstad",
		Nodes: nodes("the-hague", "delft", "leiden", "amsterdam", "rotterdam"),
		Channels: []model.Channel{
			channel("the-hague-leiden", "the-hague", "leiden", 0.9),
			channel("delft-the-hague", "delft", "the-hague", 0.95),
			channel("leiden-amsterdam", "leiden", "amsterdam", 0.9),
			channel("delft-rotterdam", "delft", "rotterdam", 0.97),
		},
	}
}

func TestLoad_ValidNetwork(t *testing.T) {
	t.Parallel()

	// --- Act ---
	net, err := Load(randstad())

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "randstad", net.Slug())
	assert.Equal(t, []string{"amsterdam", "delft", "leiden", "rotterdam", "the-hague"}, net.Nodes())
	chans := net.Channels()
	require.Len(t, chans, 4)
	assert.Equal(t, "delft-rotterdam", chans[0].Slug)
	assert.Equal(t, "the-hague-leiden", chans[3].Slug)
	assert.Equal(t, 2, net.Degree("the-hague"))
	assert.Equal(t, 1, net.Degree("amsterdam"))
	assert.Equal(t, 0, net.Degree("utrecht"))
	assert.Equal(t, []string{"delft", "leiden"}, net.Neighbours("the-hague"))
	assert.True(t, net.Usable(5))
	assert.False(t, net.Usable(6))
}

func TestLoad_ParallelChannelsCountTowardsDegree(t *testing.T) {
	t.Parallel()

	n := model.Network{
		Slug:  "pair",
		Nodes: nodes("a", "b"),
		Channels: []model.Channel{
			channel("ab-1", "a", "b", 0.9),
			channel("ab-2", "b", "a", 0.8),
		},
	}

	net, err := Load(n)

	require.NoError(t, err)
	assert.Equal(t, 2, net.Degree("a"))
	assert.Equal(t, []string{"b"}, net.Neighbours("a"))
}

func TestLoad_StructuralErrors(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	n := model.Network{
		Slug:  "broken",
		Nodes: nodes("a", "b", "a"),
		Channels: []model.Channel{
			channel("c1", "a", "z", 0.9),
			channel("c2", "b", "b", 0.9),
			channel("c1", "a", "b", 0.9),
		},
	}

	// --- Act ---
	net, err := Load(n)

	// --- Assert ---
	require.Nil(t, net)
	require.Error(t, err)
	assert.True(t, errors.Is(err, report.ErrStructural))

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	var got []string
	for _, f := range loadErr.Findings {
		got = append(got, string(f.Kind)+"@"+f.Path)
	}
	assert.ElementsMatch(t, []string{
		"DuplicateName@nodes[2].slug",
		"DanglingChannelEndpoint@channels[0].node2",
		"SelfLoop@channels[1]",
		"DuplicateName@channels[2].slug",
	}, got)
}

func TestLoad_EmptyNetwork(t *testing.T) {
	t.Parallel()

	_, err := Load(model.Network{Slug: "empty"})

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	require.Len(t, loadErr.Findings, 1)
	assert.Equal(t, report.KindEmptyTopology, loadErr.Findings[0].Kind)
}

func TestNetwork_IsImmutable(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	src := randstad()
	src.Nodes[1].Parameters = []model.ParameterSpec{param("gate_fidelity", cty.NumberIntVal(1))}
	net, err := Load(src)
	require.NoError(t, err)

	// --- Act ---
	src.Nodes[1].Slug = "changed"
	src.Nodes[1].Parameters[0].Name = "changed"
	node, ok := net.Node("delft")
	require.True(t, ok)
	node.Parameters[0].Name = "also-changed"
	m := net.Model()
	m.Nodes[0].Slug = "changed"

	// --- Assert ---
	again, ok := net.Node("delft")
	require.True(t, ok)
	assert.Equal(t, "gate_fidelity", again.Parameters[0].Name)
	assert.Equal(t, "amsterdam", net.Nodes()[0])
}

func TestFullyConnected_BestFidelityPaths(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	net, err := Load(randstad())
	require.NoError(t, err)

	// --- Act ---
	links, err := net.FullyConnected([]string{"delft", "leiden", "the-hague"})

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, links, 3)

	assert.Equal(t, "delft-leiden", links[0].Name)
	want := CombinedFidelity(0.95, 0.9)
	assert.InDelta(t, want, links[0].Fidelity, 0.00005)
	assert.Equal(t, []string{"delft-the-hague", "the-hague-leiden"}, links[0].Channels)
	assert.Equal(t, NoiseDepolarise, links[0].NoiseType, "channels without noise_type count as depolarising")

	assert.Equal(t, "delft-the-hague", links[1].Name)
	assert.Equal(t, 0.95, links[1].Fidelity)
	assert.Equal(t, "leiden-the-hague", links[2].Name)
}

func TestFullyConnected_LowFidelityIsZeroed(t *testing.T) {
	t.Parallel()

	net, err := Load(model.Network{
		Slug:  "chain",
		Nodes: nodes("a", "b", "c"),
		Channels: []model.Channel{
			channel("ab", "a", "b", 0.6, NoiseBitflip),
			channel("bc", "b", "c", 0.6, NoiseNone),
		},
	})
	require.NoError(t, err)

	links, err := net.FullyConnected([]string{"a", "c"})

	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, 0.0, links[0].Fidelity, "0.6 then 0.6 combines to about 0.41")
	assert.Equal(t, NoiseBitflip, links[0].NoiseType)
}

func TestFullyConnected_Disconnected(t *testing.T) {
	t.Parallel()

	net, err := Load(model.Network{
		Slug:     "split",
		Nodes:    nodes("a", "b", "c"),
		Channels: []model.Channel{channel("ab", "a", "b", 0.9)},
	})
	require.NoError(t, err)

	links, err := net.FullyConnected([]string{"a", "b", "c"})

	assert.ErrorIs(t, err, ErrNotFullyConnected)
	assert.Len(t, links, 1)

	_, err = net.FullyConnected([]string{"a", "zzz"})
	assert.Error(t, err)
}

func TestCombinedFidelity(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.9, CombinedFidelity(1, 0.9))
	assert.InDelta(t, 0.81+0.01/3, CombinedFidelity(0.9, 0.9), 1e-12)
}
