package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/vehicle/internal/core/models"
	"github.com/zeusync/vehicle/internal/core/observability/log"
)

// File names looked up by LoadDir. Every file is optional; a missing file
// yields an empty table.
const (
	SeatsFile       = "seats.yaml"
	VehiclesFile    = "vehicles.yaml"
	CreaturesFile   = "creatures.yaml"
	SpellsFile      = "spells.yaml"
	AccessoriesFile = "accessories.yaml"
)

var (
	ErrTooManySeats = errors.New("vehicle template has more seat slots than supported")
	ErrUnknownPower = errors.New("unknown power type")
)

type seatDoc struct {
	ID        uint32     `yaml:"id"`
	Offset    [3]float64 `yaml:"offset"`
	Yaw       float64    `yaml:"yaw"`
	Usable    bool       `yaml:"usable"`
	MainRider bool       `yaml:"main_rider"`
	CanCast   bool       `yaml:"can_cast"`
}

type vehicleDoc struct {
	ID    uint32   `yaml:"id"`
	Seats []uint32 `yaml:"seats"`
	Power string   `yaml:"power"`
}

type creatureDoc struct {
	Entry   uint32   `yaml:"entry"`
	Name    string   `yaml:"name"`
	Faction uint32   `yaml:"faction"`
	Spells  []uint32 `yaml:"spells"`
	Vehicle uint32   `yaml:"vehicle"`
}

type spellDoc struct {
	ID    uint32 `yaml:"id"`
	Name  string `yaml:"name"`
	Power string `yaml:"power"`
}

type accessoryDoc struct {
	Creature    uint32 `yaml:"creature"`
	Accessories []struct {
		Entry  uint32 `yaml:"entry"`
		Seat   int8   `yaml:"seat"`
		Minion bool   `yaml:"minion"`
	} `yaml:"accessories"`
}

type docs struct {
	seats       []seatDoc
	vehicles    []vehicleDoc
	creatures   []creatureDoc
	spells      []spellDoc
	accessories []accessoryDoc
}

// LoadDir reads all table files in dir concurrently and assembles a Store.
func LoadDir(ctx context.Context, dir string, logger log.Log) (*Store, error) {
	files := []string{SeatsFile, VehiclesFile, CreaturesFile, SpellsFile, AccessoriesFile}
	raw := make([][]byte, len(files))
	var d docs

	g, ctx := errgroup.WithContext(ctx)
	for i, name := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(filepath.Join(dir, name))
			if errors.Is(err, fs.ErrNotExist) {
				logger.Debug("Data file missing, table left empty", log.String("file", name))
				return nil
			}
			if err != nil {
				return fmt.Errorf("read %s: %w", name, err)
			}
			raw[i] = data

			var target any
			switch name {
			case SeatsFile:
				target = &d.seats
			case VehiclesFile:
				target = &d.vehicles
			case CreaturesFile:
				target = &d.creatures
			case SpellsFile:
				target = &d.spells
			case AccessoriesFile:
				target = &d.accessories
			}
			if err = decode(data, target); err != nil {
				return fmt.Errorf("decode %s: %w", name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	store, err := d.build()
	if err != nil {
		return nil, err
	}

	digest := xxhash.New()
	for _, data := range raw {
		_, _ = digest.Write(data)
	}
	store.checksum = digest.Sum64()

	logger.Info("Static data loaded",
		log.String("dir", dir),
		log.Any("tables", store.Counts()),
		log.Uint64("checksum", store.checksum),
	)
	return store, nil
}

// Changed reports whether the files in dir differ from what s was loaded from.
func (s *Store) Changed(dir string) (bool, error) {
	digest := xxhash.New()
	for _, name := range []string{SeatsFile, VehiclesFile, CreaturesFile, SpellsFile, AccessoriesFile} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return false, fmt.Errorf("read %s: %w", name, err)
		}
		_, _ = digest.Write(data)
	}
	return digest.Sum64() != s.checksum, nil
}

func decode(data []byte, target any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (d *docs) build() (*Store, error) {
	s := NewStore()

	for _, doc := range d.seats {
		var flags SeatFlags
		if doc.Usable {
			flags |= SeatFlagUsable
		}
		if doc.MainRider {
			flags |= SeatFlagMainRider
		}
		if doc.CanCast {
			flags |= SeatFlagCanCast
		}
		s.AddSeat(SeatEntry{
			ID:           doc.ID,
			Offset:       mgl64.Vec3(doc.Offset),
			PassengerYaw: doc.Yaw,
			Flags:        flags,
		})
	}

	for _, doc := range d.vehicles {
		if len(doc.Seats) > MaxSeat {
			return nil, fmt.Errorf("vehicle %d: %w (%d > %d)", doc.ID, ErrTooManySeats, len(doc.Seats), MaxSeat)
		}
		power, ok := ParseVehiclePower(doc.Power)
		if !ok {
			return nil, fmt.Errorf("vehicle %d: %w %q", doc.ID, ErrUnknownPower, doc.Power)
		}
		entry := VehicleEntry{ID: doc.ID, PowerType: power}
		copy(entry.Seats[:], doc.Seats)
		s.AddVehicle(entry)
	}

	for _, doc := range d.creatures {
		s.AddCreature(CreatureEntry{
			Entry:     doc.Entry,
			Name:      doc.Name,
			Faction:   doc.Faction,
			Spells:    doc.Spells,
			VehicleID: doc.Vehicle,
		})
	}

	for _, doc := range d.spells {
		power, ok := parsePower(doc.Power)
		if !ok {
			return nil, fmt.Errorf("spell %d: %w %q", doc.ID, ErrUnknownPower, doc.Power)
		}
		s.AddSpell(SpellEntry{ID: doc.ID, Name: doc.Name, PowerType: power})
	}

	for _, doc := range d.accessories {
		list := make([]AccessoryEntry, 0, len(doc.Accessories))
		for _, a := range doc.Accessories {
			list = append(list, AccessoryEntry{Accessory: a.Entry, Seat: a.Seat, Minion: a.Minion})
		}
		s.SetAccessories(doc.Creature, list)
	}

	return s, nil
}

// parsePower maps a spell power name onto a resource. An empty name means mana.
func parsePower(s string) (models.Power, bool) {
	switch s {
	case "", "mana":
		return models.PowerMana, true
	case "rage":
		return models.PowerRage, true
	case "focus":
		return models.PowerFocus, true
	case "energy":
		return models.PowerEnergy, true
	case "happiness":
		return models.PowerHappiness, true
	default:
		return models.PowerMana, false
	}
}
