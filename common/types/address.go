package types

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/ed25519"
)

const (
	AddressPrefix       = "fund_"
	AddressSize         = 20
	addressChecksumSize = 5
	addressPrefixLen    = len(AddressPrefix)
	hexAddressLength    = addressPrefixLen + 2*AddressSize + 2*addressChecksumSize
)

// Address identifies a party (creator or contributor) or a project.
type Address [AddressSize]byte

var ZERO_ADDRESS = Address{}

func BytesToAddress(b []byte) (Address, error) {
	var a Address
	err := a.SetBytes(b)
	return a, err
}

func HexToAddress(hexStr string) (Address, error) {
	if !IsValidHexAddress(hexStr) {
		return Address{}, fmt.Errorf("not valid hex address %q", hexStr)
	}
	return getAddressFromHex(hexStr)
}

func IsValidHexAddress(hexStr string) bool {
	if len(hexStr) != hexAddressLength || !strings.HasPrefix(hexStr, AddressPrefix) {
		return false
	}
	address, err := getAddressFromHex(hexStr)
	if err != nil {
		return false
	}
	checksum, err := hex.DecodeString(hexStr[addressPrefixLen+2*AddressSize:])
	if err != nil {
		return false
	}
	return bytes.Equal(digest(addressChecksumSize, address[:]), checksum)
}

// PubkeyToAddress derives the address owned by an ed25519 public key.
func PubkeyToAddress(pubkey []byte) Address {
	addr, _ := BytesToAddress(digest(AddressSize, pubkey))
	return addr
}

// CreateAddress generates a fresh key pair and the address it controls.
func CreateAddress() (Address, ed25519.PrivateKey, error) {
	pub, pri, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return Address{}, nil, err
	}
	return PubkeyToAddress(pub), pri, nil
}

// CreateProjectAddress derives the identity of the index-th project in a
// registry. The same inputs always yield the same address.
func CreateProjectAddress(creator Address, index uint64) Address {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], index)
	addr, _ := BytesToAddress(digest(AddressSize, []byte("project"), creator[:], n[:]))
	return addr
}

func (addr *Address) SetBytes(b []byte) error {
	if length := len(b); length != AddressSize {
		return fmt.Errorf("address bytes length error %v", length)
	}
	copy(addr[:], b)
	return nil
}

func (addr Address) Hex() string {
	return AddressPrefix + hex.EncodeToString(addr[:]) + hex.EncodeToString(digest(addressChecksumSize, addr[:]))
}

func (addr Address) Bytes() []byte { return addr[:] }

func (addr Address) String() string {
	return addr.Hex()
}

func (addr Address) IsZero() bool {
	return addr == ZERO_ADDRESS
}

func (addr Address) MarshalText() ([]byte, error) {
	return []byte(addr.Hex()), nil
}

func (addr *Address) UnmarshalText(input []byte) error {
	a, err := HexToAddress(string(input))
	if err != nil {
		return err
	}
	*addr = a
	return nil
}

func getAddressFromHex(hexStr string) (Address, error) {
	var b Address
	_, err := hex.Decode(b[:], []byte(hexStr[addressPrefixLen:addressPrefixLen+2*AddressSize]))
	return b, err
}

func digest(size int, data ...[]byte) []byte {
	d, _ := blake2b.New(size, nil)
	for _, item := range data {
		d.Write(item)
	}
	return d.Sum(nil)
}
