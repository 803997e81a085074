package port

type MetricsRecorder interface {
	// RecordMutation counts an applied add or remove of quantity units
	RecordMutation(op string, quantity int)

	// RecordMissingItem counts removes that targeted an absent item
	RecordMissingItem()

	// SetItemCount reports how many distinct items are in stock
	SetItemCount(n int)
}
