package cache

import "time"

const (
	// DriverMemory keeps cookies in memory
	DriverMemory = "memory"
	// DriverBolt keeps cookies in a bbolt database
	DriverBolt = "bolt"
	// DriverLevelDB keeps cookies in a goleveldb database
	DriverLevelDB = "leveldb"
)

// Options the cookie jar configuration
type Options struct {
	// Driver is memory, bolt or leveldb
	Driver string `yaml:"driver"`
	// Path the database directory
	Path string `yaml:"path"`
	// Interval between expired keys cleaning of bolt, zero disables it
	Interval time.Duration `yaml:"interval"`
}
