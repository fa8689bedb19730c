package model

// Fixed category and placeholder labels. They are stored in user data and
// shown as-is, so they stay in the ledger's display language.
const (
	CategoryTransfer   = "振替"
	CategoryMisc       = "雑費"
	CategoryMiscIncome = "雑収入"

	PlaceholderNoTag      = "(タグなし)"
	PlaceholderNoSchedule = "(予定なし)"
	LeafFixedCost         = "(固定費)"
	LeafUnsortedCC        = "CC未仕訳"
)
