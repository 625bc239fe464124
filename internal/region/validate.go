package region

import "fmt"

// ValidateEdges enforces the output edge stream contract: every value even
// and inside [0, 2·vertexCount). vertexCount is derived from the UV list,
// the self-describing side of the attachment.
func ValidateEdges(name string, edges []int, uvCount int) error {
	if len(edges) == 0 {
		return nil
	}
	vcount := uvCount / 2
	if vcount <= 0 {
		return fmt.Errorf("attachment %q has edges but no UVs/verts", name)
	}
	maxStream := 2*vcount - 1
	for _, v := range edges {
		if v&1 != 0 {
			return fmt.Errorf("attachment %q has odd edge index %d; must be even", name, v)
		}
		if v < 0 || v > maxStream {
			return fmt.Errorf("attachment %q edge index out of range: %d (max=%d)", name, v, maxStream)
		}
	}
	return nil
}
