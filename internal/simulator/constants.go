package simulator

import "time"

// HTTP status code constants.
const (
	statusOK = 200
)

// Script generation constants.
const (
	minSegments          = 1
	maxExtraSegments     = 3
	maxSegmentSeconds    = 120.0
	seekChance           = 0.3
	originSeekChance     = 0.1
	abandonChance        = 0.15
	randomFloatDivisor   = 1000000
	percentageMultiplier = 100
)

// Runner configuration constants.
const (
	defaultWorkers      = 4
	healthCheckTimeout  = 5 * time.Second
	workerChannelFactor = 2
)
