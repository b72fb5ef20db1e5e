package telemetry

// Metric names form a closed catalog fixed at process start. Consumers query
// these by exact name, so the values are part of the external contract.
const (
	CounterUnit = "1"

	// UnknownMetricCount is the reserved fallback counter. Operations
	// against names outside the catalog are redirected here instead of
	// failing; metrics are never allowed to throw.
	UnknownMetricCount = "UNKNOWN_METRIC_COUNT"

	// User operation counters
	UserCreatedTotal     = "USER_CREATED_TOTAL"
	UserFoundTotal       = "USER_FOUND_TOTAL"
	UserUpdatedTotal     = "USER_UPDATED_TOTAL"
	UserDeactivatedTotal = "USER_DEACTIVATED_TOTAL"
	UserErrorsTotal      = "USER_ERRORS_TOTAL"

	// Order operation counters
	OrderCreatedTotal   = "ORDER_CREATED_TOTAL"
	OrderProcessedTotal = "ORDER_PROCESSED_TOTAL"
	OrderCompletedTotal = "ORDER_COMPLETED_TOTAL"
	OrderCancelledTotal = "ORDER_CANCELLED_TOTAL"
	OrderFoundTotal     = "ORDER_FOUND_TOTAL"
	OrderErrorsTotal    = "ORDER_ERRORS_TOTAL"

	// Business counters
	BusinessHighValueOrdersTotal = "BUSINESS_HIGH_VALUE_ORDERS_TOTAL"
	BusinessTransactionsTotal    = "BUSINESS_TRANSACTIONS_TOTAL"

	// System counters
	DatabaseOperationsTotal   = "DATABASE_OPERATIONS_TOTAL"
	DatabaseErrorsTotal       = "DATABASE_ERRORS_TOTAL"
	HealthChecksTotal         = "HEALTH_CHECKS_TOTAL"
	ApplicationStartupsTotal  = "APPLICATION_STARTUPS_TOTAL"
	TelemetrySpansCreated     = "TELEMETRY_SPANS_CREATED_TOTAL"
	TelemetryMetricsRecorded  = "TELEMETRY_METRICS_RECORDED_TOTAL"

	// Histograms
	UserOperationDuration     = "USER_OPERATION_DURATION"
	OrderOperationDuration    = "ORDER_OPERATION_DURATION"
	OrderValueDistribution    = "ORDER_VALUE_DISTRIBUTION"
	DatabaseOperationDuration = "DATABASE_OPERATION_DURATION"
	BusinessTransactionAmount = "BUSINESS_TRANSACTION_AMOUNT"
)

// CounterDef describes one pre-registered counter.
type CounterDef struct {
	Name        string
	Description string
}

// HistogramDef describes one pre-registered histogram.
type HistogramDef struct {
	Name        string
	Description string
	Unit        string
}

// counterCatalog is the closed set of counters created at startup. The
// fallback counter is part of the catalog so redirection can never miss.
var counterCatalog = []CounterDef{
	{UserCreatedTotal, "Total number of users created"},
	{UserFoundTotal, "Total number of user lookup operations"},
	{UserUpdatedTotal, "Total number of user update operations"},
	{UserDeactivatedTotal, "Total number of users deactivated"},
	{UserErrorsTotal, "Total number of user operation errors"},

	{OrderCreatedTotal, "Total number of orders created"},
	{OrderProcessedTotal, "Total number of orders processed"},
	{OrderCompletedTotal, "Total number of orders completed"},
	{OrderCancelledTotal, "Total number of orders cancelled"},
	{OrderFoundTotal, "Total number of order lookup operations"},
	{OrderErrorsTotal, "Total number of order operation errors"},

	{BusinessHighValueOrdersTotal, "Total number of high-value orders"},
	{BusinessTransactionsTotal, "Total number of business transactions"},

	{DatabaseOperationsTotal, "Total number of database operations"},
	{DatabaseErrorsTotal, "Total number of database errors"},
	{HealthChecksTotal, "Total number of health check operations"},
	{ApplicationStartupsTotal, "Total number of application startups"},

	{TelemetrySpansCreated, "Total number of spans created"},
	{TelemetryMetricsRecorded, "Total number of metrics recorded"},

	{UnknownMetricCount, "Total number of unknown metric increment attempts"},
}

var histogramCatalog = []HistogramDef{
	{UserOperationDuration, "Duration of user operations", "ms"},
	{OrderOperationDuration, "Duration of order operations", "ms"},
	{OrderValueDistribution, "Distribution of order values", "USD"},
	{DatabaseOperationDuration, "Duration of database operations", "ms"},
	{BusinessTransactionAmount, "Distribution of transaction amounts", "USD"},
}
