package store

import (
	"encoding/binary"

	"github.com/vitelabs/go-crowdfund/common/types"
)

const (
	ProjectKeyPrefix = byte(iota + 1)
	RegistryKeyPrefix
	AccountKeyPrefix
)

func projectKey(addr types.Address) []byte {
	return append([]byte{ProjectKeyPrefix}, addr.Bytes()...)
}

func registryKey(index uint64) []byte {
	key := make([]byte, 9)
	key[0] = RegistryKeyPrefix
	binary.BigEndian.PutUint64(key[1:], index)
	return key
}

func accountKey(addr types.Address) []byte {
	return append([]byte{AccountKeyPrefix}, addr.Bytes()...)
}
