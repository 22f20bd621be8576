package messaging

// Subject constants for the riskstream message bus.
// Follow the pattern: {domain}.{resource}.{action}
const (
	// SubjectTransactionsScored carries every scored transaction event,
	// published best-effort after the event is stored and broadcast.
	SubjectTransactionsScored = "risk.transactions.scored"

	// SubjectVerificationsCompleted delivers identity-verification outcomes
	// produced by the external identity subsystem.
	SubjectVerificationsCompleted = "identity.verifications.completed"
)

// Queue group names for load-balanced consumers.
// Workers in the same queue group share messages (each message processed once).
const (
	QueueVerificationWorkers = "verification-workers"
)
