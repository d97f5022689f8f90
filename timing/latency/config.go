package latency

import (
	"encoding/json"
	"fmt"
	"os"
)

// TimingConfig holds latency values for the instruction classes and the
// geometry of the L1 caches used by the timing core.
type TimingConfig struct {
	// ALULatency is the execution latency for add, sub and logical ops,
	// register and immediate forms. Default: 1 cycle.
	ALULatency uint64 `json:"alu_latency"`

	// ShiftLatency is the latency for SLL/SRL/SRA and immediate forms.
	// Default: 1 cycle.
	ShiftLatency uint64 `json:"shift_latency"`

	// CompareLatency is the latency for SLT/SLTU and immediate forms.
	// Default: 1 cycle.
	CompareLatency uint64 `json:"compare_latency"`

	// UpperLatency is the latency for LUI and AUIPC. Default: 1 cycle.
	UpperLatency uint64 `json:"upper_latency"`

	// BranchLatency is the base execution latency for conditional branches.
	// This does not include misprediction penalty. Default: 1 cycle.
	BranchLatency uint64 `json:"branch_latency"`

	// JumpLatency is the latency for JAL and JALR. Default: 1 cycle.
	JumpLatency uint64 `json:"jump_latency"`

	// BranchMispredictPenalty is the additional cycles lost on branch
	// misprediction. Default: 3 cycles (classic five-stage pipeline).
	BranchMispredictPenalty uint64 `json:"branch_mispredict_penalty"`

	// LoadLatency is the latency for loads, not counting the data cache.
	// Default: 1 cycle.
	LoadLatency uint64 `json:"load_latency"`

	// StoreLatency is the latency for stores, not counting the data cache.
	// Default: 1 cycle.
	StoreLatency uint64 `json:"store_latency"`

	// L1HitLatency is the L1 cache hit latency. Default: 1 cycle.
	L1HitLatency uint64 `json:"l1_hit_latency"`

	// MemoryLatency is the main memory access latency paid on an L1 miss.
	// Default: 20 cycles.
	MemoryLatency uint64 `json:"memory_latency"`

	// ICacheSize and DCacheSize are the L1 capacities in bytes.
	// Default: 4 KiB each.
	ICacheSize int `json:"icache_size"`
	DCacheSize int `json:"dcache_size"`

	// CacheAssociativity is the number of ways in each L1. Default: 2.
	CacheAssociativity int `json:"cache_associativity"`

	// CacheBlockSize is the L1 line size in bytes. Default: 32.
	CacheBlockSize int `json:"cache_block_size"`

	// BranchPredictorSize is the number of BHT and BTB entries.
	// Default: 256.
	BranchPredictorSize uint32 `json:"branch_predictor_size"`
}

// DefaultTimingConfig returns a TimingConfig modeling a small in-order
// RV32I core.
func DefaultTimingConfig() *TimingConfig {
	return &TimingConfig{
		ALULatency:              1,
		ShiftLatency:            1,
		CompareLatency:          1,
		UpperLatency:            1,
		BranchLatency:           1,
		JumpLatency:             1,
		BranchMispredictPenalty: 3,
		LoadLatency:             1,
		StoreLatency:            1,
		L1HitLatency:            1,
		MemoryLatency:           20,
		ICacheSize:              4096,
		DCacheSize:              4096,
		CacheAssociativity:      2,
		CacheBlockSize:          32,
		BranchPredictorSize:     256,
	}
}

// LoadConfig loads a TimingConfig from a JSON file. Fields missing from the
// file keep their default values.
func LoadConfig(path string) (*TimingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read timing config file: %w", err)
	}

	config := DefaultTimingConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse timing config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a TimingConfig to a JSON file.
func (c *TimingConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize timing config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write timing config file: %w", err)
	}

	return nil
}

// Validate checks that latencies are positive and the cache geometry is
// consistent.
func (c *TimingConfig) Validate() error {
	latencies := []struct {
		name  string
		value uint64
	}{
		{"alu_latency", c.ALULatency},
		{"shift_latency", c.ShiftLatency},
		{"compare_latency", c.CompareLatency},
		{"upper_latency", c.UpperLatency},
		{"branch_latency", c.BranchLatency},
		{"jump_latency", c.JumpLatency},
		{"load_latency", c.LoadLatency},
		{"store_latency", c.StoreLatency},
		{"l1_hit_latency", c.L1HitLatency},
	}
	for _, l := range latencies {
		if l.value == 0 {
			return fmt.Errorf("%s must be > 0", l.name)
		}
	}

	if c.MemoryLatency < c.L1HitLatency {
		return fmt.Errorf("memory_latency must be >= l1_hit_latency")
	}

	if c.CacheBlockSize <= 0 || c.CacheBlockSize&(c.CacheBlockSize-1) != 0 {
		return fmt.Errorf("cache_block_size must be a power of two")
	}
	if c.CacheAssociativity <= 0 {
		return fmt.Errorf("cache_associativity must be > 0")
	}
	for _, size := range []int{c.ICacheSize, c.DCacheSize} {
		if size <= 0 || size%(c.CacheBlockSize*c.CacheAssociativity) != 0 {
			return fmt.Errorf("cache size %d must be a positive multiple of block size * associativity", size)
		}
	}

	if c.BranchPredictorSize == 0 || c.BranchPredictorSize&(c.BranchPredictorSize-1) != 0 {
		return fmt.Errorf("branch_predictor_size must be a power of two")
	}

	return nil
}

// Clone returns a deep copy of the TimingConfig.
func (c *TimingConfig) Clone() *TimingConfig {
	clone := *c
	return &clone
}
