package features

// Feature keys. Every Features map carries all of them.
const (
	NTransactionsSameAmount        = "n_transactions_same_amount"
	PercentTransactionsSameAmount  = "percent_transactions_same_amount"
	IdenticalTransactionRatio      = "identical_transaction_ratio"
	IsMonthlyRecurring             = "is_monthly_recurring"
	RecurrenceLikelihood           = "recurrence_likelihood"
	IsVaryingAmountRecurring       = "is_varying_amount_recurring"
	DayConsistencyScore            = "day_consistency_score"
	IsNearPeriodicInterval         = "is_near_periodic_interval"
	MerchantAmountStd              = "merchant_amount_std"
	MerchantIntervalStd            = "merchant_interval_std"
	MerchantIntervalMean           = "merchant_interval_mean"
	TimeSinceLastSameMerchant      = "time_since_last_transaction_same_merchant"
	IsDeposit                      = "is_deposit"
	DayOfWeek                      = "day_of_week"
	TransactionMonth               = "transaction_month"
	RollingAmountMean              = "rolling_amount_mean"
	LowAmountVariation             = "low_amount_variation"
	IsSingleTransaction            = "is_single_transaction"
	IntervalVariability            = "interval_variability"
	MerchantAmountFrequency        = "merchant_amount_frequency"
	NonRecurringIrregularity       = "non_recurring_irregularity_score"
	TransactionPatternComplexity   = "transaction_pattern_complexity"
	DateIrregularityDominance      = "date_irregularity_dominance"
	EndsIn99                       = "ends_in_99"
	NTransactions7DaysApart0Off    = "n_transactions_7_days_apart_0_off"
	PctTransactions7DaysApart0Off  = "pct_transactions_7_days_apart_0_off"
	NTransactions7DaysApart1Off    = "n_transactions_7_days_apart_1_off"
	PctTransactions7DaysApart1Off  = "pct_transactions_7_days_apart_1_off"
	NTransactions14DaysApart0Off   = "n_transactions_14_days_apart_0_off"
	PctTransactions14DaysApart0Off = "pct_transactions_14_days_apart_0_off"
	NTransactions14DaysApart1Off   = "n_transactions_14_days_apart_1_off"
	PctTransactions14DaysApart1Off = "pct_transactions_14_days_apart_1_off"
	NTransactionsSameDay0Off       = "n_transactions_same_day_0_off"
	PctTransactionsSameDay0Off     = "pct_transactions_same_day_0_off"
	NTransactionsSameDay1Off       = "n_transactions_same_day_1_off"
	PctTransactionsSameDay1Off     = "pct_transactions_same_day_1_off"
	TransactionZScore              = "transaction_z_score"
	IsInsurance                    = "is_insurance"
	IsUtility                      = "is_utility"
	IsPhone                        = "is_phone"
	IsAlwaysRecurring              = "is_always_recurring"
	IsAmazonPrime                  = "is_amazon_prime"
	IsKnownRecurringVendor         = "is_known_recurring_vendor"
	IsKnownNonRecurringVendor      = "is_known_non_recurring_vendor"
	RecurringVendorSimilarity      = "recurring_vendor_similarity"
	IsAlbert99Recurring            = "is_albert_99_recurring"
	AmountConsistencyScore         = "amount_consistency_score"
	IntervalConsistencyScore       = "interval_consistency_score"
	SameAmountCount                = "same_amount_count"
	IntervalClusterScore           = "interval_cluster_score"
	CombinedRecurrenceScore        = "combined_recurrence_score"
	SameAmountSpecificIntervals    = "is_recurring_same_amount_specific_intervals"
	MonthlyWithMissingEntries      = "monthly_with_missing_entries"
)

var names = []string{
	NTransactionsSameAmount,
	PercentTransactionsSameAmount,
	IdenticalTransactionRatio,
	IsMonthlyRecurring,
	RecurrenceLikelihood,
	IsVaryingAmountRecurring,
	DayConsistencyScore,
	IsNearPeriodicInterval,
	MerchantAmountStd,
	MerchantIntervalStd,
	MerchantIntervalMean,
	TimeSinceLastSameMerchant,
	IsDeposit,
	DayOfWeek,
	TransactionMonth,
	RollingAmountMean,
	LowAmountVariation,
	IsSingleTransaction,
	IntervalVariability,
	MerchantAmountFrequency,
	NonRecurringIrregularity,
	TransactionPatternComplexity,
	DateIrregularityDominance,
	EndsIn99,
	NTransactions7DaysApart0Off,
	PctTransactions7DaysApart0Off,
	NTransactions7DaysApart1Off,
	PctTransactions7DaysApart1Off,
	NTransactions14DaysApart0Off,
	PctTransactions14DaysApart0Off,
	NTransactions14DaysApart1Off,
	PctTransactions14DaysApart1Off,
	NTransactionsSameDay0Off,
	PctTransactionsSameDay0Off,
	NTransactionsSameDay1Off,
	PctTransactionsSameDay1Off,
	TransactionZScore,
	IsInsurance,
	IsUtility,
	IsPhone,
	IsAlwaysRecurring,
	IsAmazonPrime,
	IsKnownRecurringVendor,
	IsKnownNonRecurringVendor,
	RecurringVendorSimilarity,
	IsAlbert99Recurring,
	AmountConsistencyScore,
	IntervalConsistencyScore,
	SameAmountCount,
	IntervalClusterScore,
	CombinedRecurrenceScore,
	SameAmountSpecificIntervals,
	MonthlyWithMissingEntries,
}

// Names returns the feature keys in their canonical column order.
func Names() []string {
	out := make([]string, len(names))
	copy(out, names)
	return out
}
