package telemetry

// EventRecord is one resolved match event as a CSV row.
type EventRecord struct {
	Tick     int     `csv:"tick"`
	Clock    float64 `csv:"clock"`
	Half     int     `csv:"half"`
	Kind     string  `csv:"kind"`
	Team     int     `csv:"team"`
	Player   int     `csv:"player"`
	Other    int     `csv:"other"`
	Severity string  `csv:"severity"`
	ImpactY  float64 `csv:"impact_y"`
	ImpactZ  float64 `csv:"impact_z"`
	Reason   string  `csv:"reason"`
}
