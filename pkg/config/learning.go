package config

// LearningConfig centralizes the reinforcement-learning hyperparameters.
type LearningConfig struct {
	LearningRate          float64 `yaml:"learningRate" env:"RL_LEARNING_RATE" envDefault:"0.001"`
	DiscountFactor        float64 `yaml:"discountFactor" env:"RL_GAMMA" envDefault:"0.99"`
	ExplorationStart      float64 `yaml:"explorationStart" env:"RL_EPSILON_START" envDefault:"1.0"`
	ExplorationEnd        float64 `yaml:"explorationEnd" env:"RL_EPSILON_END" envDefault:"0.01"`
	ExplorationDecay      float64 `yaml:"explorationDecay" env:"RL_EPSILON_DECAY" envDefault:"0.995"`
	ReplayBufferSize      int     `yaml:"replayBufferSize" env:"REPLAY_BUFFER_SIZE" envDefault:"10000"`
	BatchSize             int     `yaml:"batchSize" env:"BATCH_SIZE" envDefault:"64"`
	TargetUpdateFrequency int     `yaml:"targetUpdateFrequency" env:"TARGET_UPDATE_FREQ" envDefault:"10"`
}

// ParseLearning reads hyperparameters from src. A malformed numeric value yields *ParseError.
func ParseLearning(src Source) (LearningConfig, error) {
	var c LearningConfig
	if err := bind(src, &c); err != nil {
		return LearningConfig{}, err
	}
	return c, nil
}
