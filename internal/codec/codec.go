package codec

import "github.com/ntBre/besmarts/internal/topology"

// Codec is the external collaborator spec.md §2/§6 puts out of scope:
// "SMARTS/SMILES codec (encode, decode, encode_subgraph)". The optimizer
// core only ever depends on this interface.
type Codec interface {
	SmilesDecode(smiles string) (*Graph, error)
	SmilesEncode(g *Graph) (string, error)
	SmartsEncode(s Structure) (string, error)
	SmartsEncodeStructure(s Structure) (string, error)
	SmartsDecode(smarts string, topo topology.Topology) (Structure, error)
	PrimitiveCodecs() []string
	AtomPrimitives() []string
	BondPrimitives() []string
}

// GraphCodec is the reference Codec: the small SMILES subset of smiles.go
// and the element-set SMARTS dialect of pattern.go.
type GraphCodec struct{}

func (GraphCodec) SmilesDecode(smiles string) (*Graph, error) { return DecodeSMILES(smiles) }
func (GraphCodec) SmilesEncode(g *Graph) (string, error)      { return EncodeSMILES(g) }
func (GraphCodec) SmartsEncode(s Structure) (string, error)   { return EncodeSMARTS(s) }

// SmartsEncodeStructure is the codec's "encode_subgraph": in this dialect a
// Structure already is the exact subgraph pattern, so it is identical to
// SmartsEncode.
func (GraphCodec) SmartsEncodeStructure(s Structure) (string, error) { return EncodeSMARTS(s) }

func (GraphCodec) SmartsDecode(smarts string, topo topology.Topology) (Structure, error) {
	return DecodeSMARTS(smarts, topo)
}

func (GraphCodec) PrimitiveCodecs() []string {
	return []string{"element"}
}

func (GraphCodec) AtomPrimitives() []string {
	syms := make([]string, 0, len(atomicNumber))
	for s := range atomicNumber {
		syms = append(syms, s)
	}
	return syms
}

func (GraphCodec) BondPrimitives() []string {
	return []string{"-", "=", "#"}
}
