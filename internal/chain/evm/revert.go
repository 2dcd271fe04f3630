package evm

import (
	"bytes"
	"errors"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/model"
)

// decodeRevert turns a failed eth_call into a *model.RevertError when the node
// reported a revert. Transport failures are returned unchanged.
func decodeRevert(err error, contract abi.ABI) error {
	if err == nil {
		return nil
	}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if data, ok := revertData(dataErr.ErrorData()); ok && len(data) >= 4 {
			if name, ok := errorBySelector(contract, data[:4]); ok {
				return &model.RevertError{Name: name, Data: data}
			}
			return &model.RevertError{Data: data}
		}
	}

	msg := err.Error()
	if !strings.Contains(msg, "revert") {
		return err
	}
	for _, name := range errorNames(contract) {
		if strings.Contains(msg, name) {
			return &model.RevertError{Name: name}
		}
	}
	return &model.RevertError{}
}

func revertData(v interface{}) ([]byte, bool) {
	switch data := v.(type) {
	case string:
		b, err := hexutil.Decode(data)
		if err != nil {
			return nil, false
		}
		return b, true
	case []byte:
		return data, true
	default:
		return nil, false
	}
}

func errorBySelector(contract abi.ABI, selector []byte) (string, bool) {
	for name, e := range contract.Errors {
		if bytes.Equal(e.ID[:4], selector) {
			return name, true
		}
	}
	return "", false
}

// errorNames returns custom error names longest first so that a name is never
// shadowed by a shorter one it contains.
func errorNames(contract abi.ABI) []string {
	names := make([]string, 0, len(contract.Errors))
	for name := range contract.Errors {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return names
}
