package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"drapecost/internal/calc"
	"drapecost/internal/storage"
)

var ErrInvalidLeftover = errors.New("invalid leftover piece")

type LeftoverStorage interface {
	CreateLeftover(ctx context.Context, l storage.Leftover) error
}

// RecordLeftover stores a remnant cut off an earlier job and returns its id.
func RecordLeftover(ctx context.Context, st LeftoverStorage, piece calc.LeftoverPiece) (string, error) {
	const op = "service.leftover.RecordLeftover"

	piece.FabricID = strings.TrimSpace(piece.FabricID)
	if piece.FabricID == "" {
		return "", fmt.Errorf("%s: %w: fabric_id is required", op, ErrInvalidLeftover)
	}
	if piece.Orientation != calc.Vertical && piece.Orientation != calc.Horizontal {
		return "", fmt.Errorf("%s: %w: orientation %q", op, ErrInvalidLeftover, piece.Orientation)
	}
	if piece.LengthCm <= 0 {
		return "", fmt.Errorf("%s: %w: length must be positive", op, ErrInvalidLeftover)
	}

	id := uuid.NewString()

	err := st.CreateLeftover(ctx, storage.Leftover{
		ID:                  id,
		FabricID:            piece.FabricID,
		Orientation:         piece.Orientation,
		LengthCm:            piece.LengthCm,
		SourceTreatmentName: piece.SourceTreatmentName,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}
