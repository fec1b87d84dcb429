package icon

import (
	"testing"

	"github.com/pitchplay/pitchplay/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestGet(t *testing.T) {
	Convey("Given a registered icon", t, func() {
		target := Retry

		Convey("It renders correctly for each variant", func() {
			for _, variant := range AvailableVariants() {
				Convey("variant="+variant, func() {
					viper.Set(key.IconsVariant, variant)
					result := Get(target)
					So(result, ShouldNotBeEmpty)
				})
			}
		})

		Convey("An unknown variant falls back to plain", func() {
			viper.Set(key.IconsVariant, "")
			So(Variant(), ShouldEqual, plain)
			So(Get(target), ShouldEqual, icons[target].plain)
		})

		Convey("An unregistered icon renders nothing", func() {
			So(Get(Icon(0)), ShouldBeEmpty)
		})
	})
}

func TestRegistry(t *testing.T) {
	Convey("Every icon has a rendering for every variant", t, func() {
		for i := Fail; i <= Mark; i++ {
			def, ok := icons[i]
			So(ok, ShouldBeTrue)
			for _, variant := range AvailableVariants() {
				So(def.get(variant), ShouldNotBeEmpty)
			}
		}
	})
}
