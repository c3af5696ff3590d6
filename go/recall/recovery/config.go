package recovery

import "time"

// Config recognises exactly the tunable options the recovery pass needs.
// Struct tags follow the jessevdk/go-flags convention:
// `long`/`env`/`default`/`description` per field, so the same struct
// doubles as CLI flags and environment configuration in cmd/recall-recon.
// RecallToOMSTopicName and OMSToRecallTopicName are accepted but not read
// by the Driver, which classifies entries by the topics package constants.
type Config struct {
	Timeout time.Duration `long:"timeout" env:"TIMEOUT" default:"1s" description:"Deadline on the recovery pass's context, which bounds its outbound publishes"`

	RecallTicketTopicName string `long:"recall-ticket-topic" env:"RECALL_TICKET_TOPIC" default:"RECALL/TICKET" description:"Publish target for REPUBLISH"`
	RecallToOMSTopicName  string `long:"recall-to-oms-topic" env:"RECALL_TO_OMS_TOPIC" default:"RECALL/TO/OMS" description:"Source of outbound Order/ExecutionReport entries"`
	OMSToRecallTopicName  string `long:"oms-to-recall-topic" env:"OMS_TO_RECALL_TOPIC" default:"OMS/TO/RECALL" description:"Source of inbound ExecutionReport entries"`
	DfdTopicName          string `long:"dfd-topic" env:"DFD_TOPIC" default:"RECALL/DFD" description:"Target for compensating done-for-day publishes"`
}
