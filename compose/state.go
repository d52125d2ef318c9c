package compose

// State is the composition run's position in the pipeline. Transitions
// run strictly forward; Failed is terminal and reachable from any stage.
type State string

const (
	StateIdle               State = "idle"
	StateSynthesizingClips  State = "synthesizing_clips"
	StateConcatenatingVideo State = "concatenating_video"
	StateConcatenatingAudio State = "concatenating_audio"
	StateBuildingSubtitles  State = "building_subtitles"
	StateFinalMux           State = "final_mux"
	StateDone               State = "done"
	StateFailed             State = "failed"
)
