package transport

import (
	"encoding/json"

	"github.com/chainnode-go/chainnode/model"
	"github.com/chainnode-go/chainnode/peerstore"
)

// Message types, spec.md §4.10.
const (
	TypeRequestPeers              = "request_peers"
	TypeSendPeers                 = "send_peers"
	TypeFromGenesis                = "from_genesis"
	TypeHealthCheck                = "health_check"
	TypeHealthCheckResponse        = "health_check_response"
	TypeGenesisHealthCheck         = "genesis_health_check"
	TypeGenesisHealthCheckResponse = "genesis_health_check_response"
	TypeNewBlockMined              = "new_block_mined"
	TypeNewTransaction              = "new_transaction"
)

// Envelope is the discriminant every frame carries, used to sniff `type`
// before unmarshaling into the concrete payload.
type Envelope struct {
	Type string `json:"type"`
}

// NetAddr is the wire representation of a peer address: a 2-element
// [ip, port] JSON array, per spec.md §4.10's `address:[ip,port]` fields.
type NetAddr [2]interface{}

// ToAddr converts a decoded NetAddr into a peerstore.Addr.
func (n NetAddr) ToAddr() (peerstore.Addr, bool) {
	ip, ok := n[0].(string)
	if !ok {
		return peerstore.Addr{}, false
	}
	portF, ok := n[1].(float64)
	if !ok {
		return peerstore.Addr{}, false
	}
	return peerstore.Addr{IP: ip, Port: int(portF)}, true
}

// AddrToNetAddr converts a peerstore.Addr to its wire form.
func AddrToNetAddr(a peerstore.Addr) NetAddr {
	return NetAddr{a.IP, float64(a.Port)}
}

type RequestPeers struct {
	Type    string  `json:"type"`
	Address NetAddr `json:"address"`
}

type SendPeers struct {
	Type    string    `json:"type"`
	Address NetAddr   `json:"address"`
	Peers   []NetAddr `json:"peers"`
}

type FromGenesis struct {
	Type  string    `json:"type"`
	Peers []NetAddr `json:"peers"`
}

type HealthCheck struct {
	Type    string  `json:"type"`
	Address NetAddr `json:"address"`
}

type HealthCheckResponse struct {
	Type   string `json:"type"`
	Status string `json:"status"`
}

type GenesisHealthCheck struct {
	Type string `json:"type"`
}

type GenesisHealthCheckResponse struct {
	Type   string `json:"type"`
	Status string `json:"status"`
}

type NewBlockMined struct {
	Type    string       `json:"type"`
	Block   *model.Block `json:"block"`
	Address NetAddr      `json:"address"`
}

type NewTransaction struct {
	Type        string             `json:"type"`
	Transaction *model.Transaction `json:"transaction"`
	Address     NetAddr            `json:"address"`
}

// DecodeEnvelope sniffs the `type` discriminant out of a raw frame payload.
func DecodeEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	err := json.Unmarshal(raw, &env)
	return env, err
}
