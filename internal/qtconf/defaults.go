package qtconf

import "path"

// DefaultPlatformDefs is the qplatformdefs.h used for linux-clang builds,
// relative to a top-level Qt checkout.
const DefaultPlatformDefs = "qtbase/mkspecs/linux-clang/qplatformdefs.h"

// DefaultQtCore returns a fixed linux configuration for building QtCore
// (and the bootstrap tools on top of it). sourceRoot is the Qt checkout.
func DefaultQtCore(sourceRoot string) ModuleConfig {
	cfg := NewModuleConfig("QtCore").WithTypePrefix("Q")
	if sourceRoot != "" {
		cfg = cfg.WithPlatformDefs(path.Join(sourceRoot, DefaultPlatformDefs))
	}

	cfg = cfg.WithFeatures(GlobalPublic,
		Feature{"shared", false},
		Feature{"static", true},
		Feature{"cross_compile", false},
		Feature{"pkg_config", true},
		Feature{"debug_and_release", false},
		Feature{"appstore_compliant", false},
		Feature{"thread", true},
		Feature{"future", true},
		Feature{"concurrent", true},
		Feature{"framework", false},
		Feature{"rpath", true},
		Feature{"separate_debug_info", false},
		Feature{"simulator_and_device", false},
		Feature{"force_asserts", false},
		Feature{"c11", true},
		Feature{"cxx20", false},
	)
	cfg = cfg.WithDefines(GlobalPublic,
		Define{"QT_VERSION_STR", `"6.2.0"`},
		Define{"QT_VERSION_MAJOR", "6"},
		Define{"QT_VERSION_MINOR", "2"},
		Define{"QT_VERSION_PATCH", "0"},
		Define{"QT_NO_EXCEPTIONS", ""},
	)
	cfg = cfg.WithFeatures(GlobalPrivate,
		Feature{"gc_binaries", false},
		Feature{"reduce_exports", true},
		Feature{"reduce_relocations", true},
		Feature{"sse2", true},
		Feature{"posix_fallocate", true},
		Feature{"alloca_h", true},
		Feature{"alloca", true},
		Feature{"stack_protector_strong", false},
		Feature{"system_zlib", true},
		Feature{"zstd", false},
		Feature{"dbus", false},
		Feature{"gui", false},
		Feature{"network", false},
		Feature{"sql", false},
		Feature{"testlib", false},
		Feature{"widgets", false},
		Feature{"xml", false},
	)

	cfg = cfg.WithFeatures(ModulePublic,
		Feature{"clock_monotonic", true},
		Feature{"cxx11_future", true},
		Feature{"textdate", true},
		Feature{"datestring", true},
		Feature{"datetimeparser", true},
		Feature{"regularexpression", true},
		Feature{"library", true},
		Feature{"process", true},
		Feature{"processenvironment", true},
		Feature{"settings", true},
		Feature{"temporaryfile", true},
		Feature{"timezone", true},
		Feature{"translation", true},
		Feature{"filesystemwatcher", true},
		Feature{"filesystemiterator", true},
		Feature{"commandlineparser", true},
		Feature{"cborstreamreader", true},
		Feature{"cborstreamwriter", true},
		Feature{"mimetype", false},
		Feature{"itemmodel", true},
		Feature{"sharedmemory", true},
		Feature{"systemsemaphore", true},
	)
	cfg = cfg.WithFeatures(ModulePrivate,
		Feature{"doubleconversion", true},
		Feature{"system_doubleconversion", false},
		Feature{"futimens", true},
		Feature{"getauxval", true},
		Feature{"getentropy", true},
		Feature{"glib", false},
		Feature{"icu", false},
		Feature{"inotify", true},
		Feature{"journald", false},
		Feature{"linkat", true},
		Feature{"pcre2", true},
		Feature{"system_pcre2", true},
		Feature{"poll_ppoll", true},
		Feature{"renameat2", true},
		Feature{"slog2", false},
		Feature{"statx", true},
		Feature{"syslog", false},
		Feature{"sha3_fast", true},
	)
	return cfg
}
