package domain

import "strings"

const (
	MinTransparency = 0
	MaxTransparency = 10

	maxChainIDLen  = 4
	maxStructIDLen = 12
)

// ValidateChainID checks a chain identifier: one to four letters or digits.
func ValidateChainID(op, chainID string) error {
	if chainID == "" {
		return InvalidArgument(op, "chain id is required")
	}
	if len(chainID) > maxChainIDLen || !isAlnum(chainID) {
		return InvalidArgument(op, "chain id %q must be 1-%d letters or digits", chainID, maxChainIDLen)
	}
	return nil
}

// ValidateStructureID checks a PDB-style identifier (e.g. 1TUP, pdb_00001tup).
func ValidateStructureID(op, id string) error {
	if strings.TrimSpace(id) == "" {
		return InvalidArgument(op, "structure id is required")
	}
	if len(id) > maxStructIDLen || !isAlnum(strings.ReplaceAll(id, "_", "")) {
		return InvalidArgument(op, "structure id %q must be letters, digits or '_'", id)
	}
	return nil
}

// ValidatePositions rejects an empty residue list.
func ValidatePositions(op string, positions []int) error {
	if len(positions) == 0 {
		return InvalidArgument(op, "at least one residue position is required")
	}
	return nil
}

// ValidateTransparency checks the 0-10 transparency scale.
func ValidateTransparency(op string, level int) error {
	if level < MinTransparency || level > MaxTransparency {
		return InvalidArgument(op, "transparency %d out of range %d-%d", level, MinTransparency, MaxTransparency)
	}
	return nil
}

func isAlnum(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		b := s[i]
		if !(b >= '0' && b <= '9') && !(b >= 'a' && b <= 'z') && !(b >= 'A' && b <= 'Z') {
			return false
		}
	}
	return true
}
