package config

type SessionConfig interface {
	GetDefaultTokenTTLMinutes() int
}

type StorageConfig interface {
	GetSessionStore() string
	GetSessionFile() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetPersistKey() string
}

const (
	SessionStoreFile   = "file"
	SessionStoreRedis  = "redis"
	SessionStoreMemory = "memory"
)

type Session struct {
	v values
}

var _ SessionConfig = Session{}

func (s Session) GetDefaultTokenTTLMinutes() int {
	ttl := s.v.getInt("TOKEN_TTL_MINUTES", 30)
	if ttl <= 0 {
		return 30
	}
	return ttl
}

type Storage struct {
	v values
}

var _ StorageConfig = Storage{}

func (s Storage) GetSessionStore() string {
	return s.v.get("SESSION_STORE", SessionStoreFile)
}

// GetSessionFile returns the session file path. Empty selects ~/.product-console/session.json.
func (s Storage) GetSessionFile() string {
	return s.v.get("SESSION_FILE", "")
}

func (s Storage) GetRedisAddr() string {
	return s.v.get("REDIS_ADDR", "localhost:6379")
}

func (s Storage) GetRedisPassword() string {
	return s.v.get("REDIS_PASSWORD", "")
}

func (s Storage) GetRedisDB() int {
	return s.v.getInt("REDIS_DB", 0)
}

// GetPersistKey is the single namespaced key the session is stored under.
func (s Storage) GetPersistKey() string {
	return s.v.get("PERSIST_KEY", "persist:auth")
}
