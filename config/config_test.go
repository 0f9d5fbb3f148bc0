package config

import (
	"testing"

	"github.com/etldl/etldl/filesystem"
	"github.com/etldl/etldl/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			So(Setup(), ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				So(viper.Get(name), ShouldNotBeNil)
			}
			So(viper.GetInt(key.FetchWorkers), ShouldEqual, 16)
			So(viper.GetDuration(key.FetchSegmentTimeout).Seconds(), ShouldEqual, 30)
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			So(EnvKeyReplacer.Replace("fetch.segment_timeout"), ShouldEqual, "fetch_segment_timeout")
		})

		Convey("Env should carry the application prefix", func() {
			f := Default[key.FetchWorkers]
			So(f.Env(), ShouldEqual, "ETLDL_FETCH_WORKERS")
		})

		Convey("The password is never a file setting", func() {
			_, ok := Default[key.AuthPassword]
			So(ok, ShouldBeFalse)
		})
	})
}
