package kitchen

import (
	"math"
	"time"

	"github.com/aquilax/go-perlin"
)

// CustomerTypes типы посетителей в порядке возрастания "настроения" шума
var CustomerTypes = []string{"hurried", "regular", "family", "patient"}

// CustomerMood плавно меняет тип посетителей по ходу матча
type CustomerMood struct {
	noise *perlin.Perlin
	scale float64 // секунд матча на единицу шума
}

// NewCustomerMood создает генератор настроения с заданным сидом
func NewCustomerMood(seed int64) *CustomerMood {
	// alpha, beta и число октав как у карты шума мира
	return &CustomerMood{
		noise: perlin.NewPerlin(2.0, 2.0, 3, seed),
		scale: 20.0,
	}
}

// At возвращает тип посетителя для момента матча
func (m *CustomerMood) At(elapsed time.Duration) string {
	// смещение на полпериода: в целых точках шум Перлина равен нулю
	v := m.noise.Noise1D(elapsed.Seconds()/m.scale + 0.5)
	normalized := (v + 1) / 2
	normalized = math.Max(0, math.Min(normalized, 0.999999))
	return CustomerTypes[int(normalized*float64(len(CustomerTypes)))]
}
