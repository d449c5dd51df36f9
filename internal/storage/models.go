package storage

import "github.com/johanforsgren/repobrowser/internal/domain"

type Config struct {
	Version int            `json:"version"`
	Session domain.Session `json:"session"`
}

const configVersion = 1

// credential is the single-row table backing SQLiteStore.
type credential struct {
	ID          uint   `gorm:"primaryKey"`
	AccessToken string `gorm:"not null;default:''"`
	UserLogin   string `gorm:"not null;default:''"`
	UserName    string `gorm:"not null;default:''"`
	TokenScope  string `gorm:"not null;default:''"`
}

func (credential) TableName() string {
	return "credentials"
}

const credentialRowID = 1
