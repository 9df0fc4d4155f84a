package builtin

// The duration of a chain epoch in clock time.
// Used for deriving epoch-denominated periods that are more naturally expressed in clock time,
// such as vesting cliffs and durations.
const EpochDurationSeconds = 30
const SecondsInHour = 3600
const SecondsInDay = 86400
const EpochsInHour = SecondsInHour / EpochDurationSeconds
const EpochsInDay = SecondsInDay / EpochDurationSeconds
