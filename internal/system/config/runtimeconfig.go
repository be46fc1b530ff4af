/*
 * Copyright (c) 2025-2026, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package config

import "sync"

// ILSRuntime holds the runtime configuration for the link server.
type ILSRuntime struct {
	ILSHome string `yaml:"ils_home"`
	Config  Config `yaml:"config"`
}

var (
	runtimeConfig *ILSRuntime
	once          sync.Once
)

// InitializeILSRuntime initializes the ILSRuntime configuration.
func InitializeILSRuntime(ilsHome string, config *Config) error {

	once.Do(func() {
		runtimeConfig = &ILSRuntime{
			ILSHome: ilsHome,
			Config:  *config,
		}
	})

	return nil
}

// GetILSRuntime returns the ILSRuntime configuration.
func GetILSRuntime() *ILSRuntime {

	if runtimeConfig == nil {
		panic("ILSRuntime is not initialized")
	}
	return runtimeConfig
}
