package contracts

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// Artifact is a compiled contract as emitted by the buidler compile step.
type Artifact struct {
	ContractName string
	ABI          abi.ABI
	Bytecode     []byte
}

type artifactFile struct {
	ContractName string          `json:"contractName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     string          `json:"bytecode"`
}

// ArtifactStore reads artifacts from a directory of <ContractName>.json files.
type ArtifactStore struct {
	dir string
}

func NewArtifactStore(dir string) *ArtifactStore {
	return &ArtifactStore{dir: dir}
}

// Load reads and validates the artifact of contractName.
func (s *ArtifactStore) Load(contractName string) (*Artifact, error) {
	path := filepath.Join(s.dir, contractName+".json")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read artifact %s", path)
	}
	return ParseArtifact(raw)
}

// ParseArtifact decodes an artifact document. Unlinked library placeholders
// are rejected since the tasks never link libraries.
func ParseArtifact(raw []byte) (*Artifact, error) {
	var f artifactFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, errors.Wrap(err, "failed to decode artifact")
	}
	if len(f.ABI) == 0 {
		return nil, errors.Errorf("artifact %s has no abi", f.ContractName)
	}
	parsed, err := abi.JSON(bytes.NewReader(f.ABI))
	if err != nil {
		return nil, errors.Wrapf(err, "artifact %s has an invalid abi", f.ContractName)
	}
	code := strings.TrimSpace(f.Bytecode)
	if strings.Contains(code, "__") {
		return nil, errors.Errorf("artifact %s has unlinked library references", f.ContractName)
	}
	bytecode := common.FromHex(code)
	if len(bytecode) == 0 {
		return nil, errors.Errorf("artifact %s has no bytecode (abstract contract or interface?)", f.ContractName)
	}
	return &Artifact{ContractName: f.ContractName, ABI: parsed, Bytecode: bytecode}, nil
}
