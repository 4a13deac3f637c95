package models

// TargetMode is the granularity an outbound command is addressed at.
type TargetMode string

const (
	TargetAll    TargetMode = "All"
	TargetGroup  TargetMode = "Group"
	TargetSlave  TargetMode = "Slave"
	TargetBooth  TargetMode = "Booth"
	TargetPID    TargetMode = "PID"
	TargetSubset TargetMode = "Subset"
)

// TargetModes lists the modes in console order.
var TargetModes = []TargetMode{TargetAll, TargetGroup, TargetSlave, TargetBooth, TargetPID, TargetSubset}

// CommandType selects how the master interprets the payload.
type CommandType string

const (
	CommandMaster CommandType = "MCMD" // fleet broadcast
	CommandSlave  CommandType = "SCMD" // slave scoped
	CommandHex    CommandType = "Hex"  // raw frame
)

// CommandTypes lists the command types in console order.
var CommandTypes = []CommandType{CommandMaster, CommandSlave, CommandHex}

// FleetSelection is the fleet-wide selection sentinel.
const FleetSelection = "All Halls"

// CommandEnvelope is one fully resolved operator action.
type CommandEnvelope struct {
	TargetMode  TargetMode  `json:"target"`
	CommandType CommandType `json:"type"`
	Selection   string      `json:"id"`
	Payload     string      `json:"cmd"`
}

// ConsoleState is the operator's command composition state.
type ConsoleState struct {
	TargetMode  TargetMode  `json:"target_mode"`
	CommandType CommandType `json:"command_type"`
	Selection   string      `json:"selection"`
	Payload     string      `json:"payload"`
}
